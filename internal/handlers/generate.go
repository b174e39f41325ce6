package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/models"
	"brainwave-backend/internal/repository"
)

// cardGenerator is the boundary to the generation service; tests substitute
// a stub for the Gemini-backed implementation.
type cardGenerator interface {
	GenerateFlashcards(ctx context.Context, topic string) ([]models.GeneratedCard, error)
}

// documentStore is the boundary to the per-user aggregate document.
type documentStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error)
	Update(ctx context.Context, userID uuid.UUID, mutate func(*models.UserDocument) error) (*models.UserDocument, error)
}

type GenerateHandler struct {
	generator cardGenerator
	store     documentStore
}

func NewGenerateHandler(generator cardGenerator, store documentStore) *GenerateHandler {
	return &GenerateHandler{generator: generator, store: store}
}

// Generate runs the full pipeline for one topic: prompt, model call, parse,
// validate, persist. The cards are only written after validation passes.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// An empty topic is accepted and forwarded; the model decides what to
	// do with it.
	userID := middleware.GetUserID(r.Context())

	cards, err := h.generator.GenerateFlashcards(r.Context(), req.Topic)
	if err != nil {
		handlePipelineError(w, r, err)
		return
	}

	newCards := make([]models.Flashcard, 0, len(cards))
	now := time.Now().UTC()
	for _, c := range cards {
		id, err := gonanoid.New()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to assign card ID", r))
			return
		}
		newCards = append(newCards, models.Flashcard{
			ID:           id,
			Front:        c.Front,
			Back:         c.Back,
			CollectionID: req.CollectionID,
			CreatedAt:    now,
		})
	}

	_, err = h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		if req.CollectionID != nil {
			if _, ok := doc.FindCollection(*req.CollectionID); !ok {
				return repository.ErrNotFound
			}
		}
		doc.AppendFlashcards(newCards)
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.GenerateFlashcardsResponse{Flashcards: newCards})
}
