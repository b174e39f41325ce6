package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"brainwave-backend/internal/models"
)

type GeminiService struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	cardCount int
	timeout   time.Duration
	rateChan  chan struct{} // Token bucket
}

func NewGeminiService(apiKey, modelName string, concurrentReqs, cardCount, timeoutSeconds int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:    client,
		model:     model,
		cardCount: cardCount,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
		rateChan:  rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateFlashcards runs one prompt→completion→parse→validate pass for a
// topic and returns exactly the configured number of cards or a typed error.
// Upstream failures are not retried; the caller decides what to surface.
func (s *GeminiService) GenerateFlashcards(ctx context.Context, topic string) ([]models.GeneratedCard, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildFlashcardPrompt(topic, s.cardCount)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	rawText := extractText(resp)
	if rawText == "" {
		return nil, &UpstreamError{Err: fmt.Errorf("Gemini returned no text")}
	}

	cards, err := ParseFlashcards(rawText)
	if err != nil {
		return nil, err
	}

	if err := ValidateCards(cards, s.cardCount); err != nil {
		return nil, err
	}

	return cards, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
