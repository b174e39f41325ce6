package services

import (
	"fmt"
	"strings"
)

// buildFlashcardPrompt composes the fixed policy preamble with the caller's
// topic text. The topic is interpolated verbatim, empty input included.
func buildFlashcardPrompt(topic string, count int) string {
	var b strings.Builder

	b.WriteString("You are a flashcard creator. Your task is to generate concise and effective flashcards based on the given topic or content.\n")
	b.WriteString("Each flashcard should have a clear question on one side and a concise answer on the other. ")
	b.WriteString("Focus on key concepts, definitions, and important facts. ")
	b.WriteString("Ensure that the information is accurate and presented in a way that facilitates learning and retention. ")
	b.WriteString("Avoid creating overly complex or ambiguous flashcards. ")
	b.WriteString("If appropriate, include examples or mnemonics to aid memory. ")
	b.WriteString("Aim to create a balanced set of flashcards that covers the main points of the subject matter.\n")
	b.WriteString(fmt.Sprintf("Only generate %d flashcards.\n\n", count))

	b.WriteString("Return in the following JSON format:\n")
	b.WriteString("{\n  \"flashcards\": [{\"front\": str, \"back\": str}]\n}\n")
	b.WriteString("Ensure that your entire response is a valid JSON object. ")
	b.WriteString("Please do not include any extra newlines or words. Only return all flashcards as shown above.\n\n")

	b.WriteString(topic)

	return b.String()
}
