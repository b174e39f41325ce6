package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/models"
	"brainwave-backend/internal/repository"
)

type CollectionHandler struct {
	store documentStore
}

func NewCollectionHandler(store documentStore) *CollectionHandler {
	return &CollectionHandler{store: store}
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to assign collection ID", r))
		return
	}

	collection := models.Collection{ID: id, Name: name}

	userID := middleware.GetUserID(r.Context())
	_, err = h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		doc.AddCollection(collection)
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, collection)
}

// Delete removes the collection and unassigns it from every card that
// referenced it. The cards stay.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collectionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if collectionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid collection ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	_, err := h.store.Update(r.Context(), userID, func(doc *models.UserDocument) error {
		if !doc.DeleteCollection(collectionID) {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		handleStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Collection deleted"})
}
