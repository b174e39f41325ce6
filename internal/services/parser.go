package services

import (
	"encoding/json"
	"strings"

	"brainwave-backend/internal/models"
)

// The model is asked for a JSON object but does not always comply: some
// completions come back as markdown-flavored text pairs. Decoding therefore
// sniffs the content instead of trusting the requested format — strict JSON
// first, delimited text as the fallback.

// ParseFlashcards converts a raw completion into front/back pairs.
func ParseFlashcards(raw string) ([]models.GeneratedCard, error) {
	text := stripCodeFence(raw)

	if looksLikeJSON(text) {
		return parseJSONCards(text)
	}

	cards := parseDelimitedCards(text)
	if len(cards) == 0 {
		return nil, &UnparseableError{Reason: "no flashcard sections found in text response"}
	}
	return cards, nil
}

// stripCodeFence removes a surrounding markdown code fence, which Gemini
// tends to add even when told not to.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func looksLikeJSON(text string) bool {
	return strings.HasPrefix(text, "{")
}

// parseJSONCards expects {"flashcards":[{"front":...,"back":...},...]}.
// Field values are taken verbatim, not trimmed.
func parseJSONCards(text string) ([]models.GeneratedCard, error) {
	var envelope struct {
		Flashcards json.RawMessage `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		// Looked like JSON but is not; the delimited heuristics will not
		// do better with a broken object.
		return nil, &UnparseableError{Reason: "invalid JSON: " + err.Error()}
	}
	if envelope.Flashcards == nil {
		return nil, &ShapeError{Detail: "missing flashcards key"}
	}

	var cards []models.GeneratedCard
	if err := json.Unmarshal(envelope.Flashcards, &cards); err != nil {
		return nil, &ShapeError{Detail: "flashcards is not an array of front/back objects"}
	}
	if cards == nil {
		return nil, &ShapeError{Detail: "flashcards is null"}
	}
	return cards, nil
}

// parseDelimitedCards splits text on blank lines into sections, takes the
// first line of each as the front and the rest as the back, and strips the
// "* **Front:**" / "* **Back:**" label markup one observed model likes to
// emit. Sections missing either side are discarded.
func parseDelimitedCards(text string) []models.GeneratedCard {
	var cards []models.GeneratedCard

	for _, section := range strings.Split(text, "\n\n") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		front := section
		back := ""
		if idx := strings.Index(section, "\n"); idx >= 0 {
			front = section[:idx]
			back = section[idx+1:]
		}

		front = stripCardLabel(front, "Front:")
		back = stripCardLabel(back, "Back:")
		if front == "" || back == "" {
			continue
		}

		cards = append(cards, models.GeneratedCard{Front: front, Back: back})
	}

	return cards
}

func stripCardLabel(line, label string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "*")
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "**"+label+"**")
	line = strings.TrimPrefix(line, label)
	return strings.TrimSpace(line)
}
