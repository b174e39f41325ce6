package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/models"
	"brainwave-backend/internal/repository"
)

type FlashcardHandler struct {
	store documentStore
}

func NewFlashcardHandler(store documentStore) *FlashcardHandler {
	return &FlashcardHandler{store: store}
}

// List returns the user's whole document: flashcards and collections.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	doc, err := h.store.Get(r.Context(), userID)
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// Create adds one manually authored card.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Front == "" || req.Back == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "front and back are required", r))
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to assign card ID", r))
		return
	}

	card := models.Flashcard{
		ID:           id,
		Front:        req.Front,
		Back:         req.Back,
		CollectionID: req.CollectionID,
		CreatedAt:    time.Now().UTC(),
	}

	userID := middleware.GetUserID(r.Context())
	_, err = h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		if req.CollectionID != nil {
			if _, ok := doc.FindCollection(*req.CollectionID); !ok {
				return repository.ErrNotFound
			}
		}
		doc.AppendFlashcards([]models.Flashcard{card})
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// Update applies a partial edit to one card. The id and any omitted fields
// are preserved.
func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	if cardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	var req models.UpdateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Front != nil && *req.Front == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "front cannot be empty", r))
		return
	}
	if req.Back != nil && *req.Back == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "back cannot be empty", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	var updated models.Flashcard
	_, err := h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		card, ok := doc.FindFlashcard(cardID)
		if !ok {
			return repository.ErrNotFound
		}

		if req.Front != nil {
			card.Front = *req.Front
		}
		if req.Back != nil {
			card.Back = *req.Back
		}
		if req.CollectionID != nil {
			if *req.CollectionID == "" {
				card.CollectionID = nil
			} else {
				if _, ok := doc.FindCollection(*req.CollectionID); !ok {
					return repository.ErrNotFound
				}
				card.CollectionID = req.CollectionID
			}
		}

		doc.UpsertFlashcard(card)
		updated = card
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cardID := strings.TrimSpace(chi.URLParam(r, "id"))
	if cardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	_, err := h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		if !doc.DeleteFlashcard(cardID) {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}
