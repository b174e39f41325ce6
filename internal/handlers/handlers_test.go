package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/models"
	"brainwave-backend/internal/services"
)

// ─── Test doubles ───

type stubGenerator struct {
	cards []models.GeneratedCard
	err   error
}

func (s *stubGenerator) GenerateFlashcards(ctx context.Context, topic string) ([]models.GeneratedCard, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}

type memoryStore struct {
	docs map[uuid.UUID]*models.UserDocument
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[uuid.UUID]*models.UserDocument)}
}

func (m *memoryStore) Get(ctx context.Context, userID uuid.UUID) (*models.UserDocument, error) {
	if doc, ok := m.docs[userID]; ok {
		return doc, nil
	}
	return models.NewUserDocument(), nil
}

func (m *memoryStore) Update(ctx context.Context, userID uuid.UUID, mutate func(*models.UserDocument) error) (*models.UserDocument, error) {
	doc, ok := m.docs[userID]
	if !ok {
		doc = models.NewUserDocument()
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}
	m.docs[userID] = doc
	return doc, nil
}

func tenCards() []models.GeneratedCard {
	var cards []models.GeneratedCard
	for i := 1; i <= 10; i++ {
		cards = append(cards, models.GeneratedCard{
			Front: fmt.Sprintf("Q%d", i),
			Back:  fmt.Sprintf("A%d", i),
		})
	}
	return cards
}

var testUserID = uuid.MustParse("2b1e8a44-9c64-4a9f-bb6f-111111111111")

// newTestRouter wires the handlers the way internal/router does, with a
// middleware that plants a fixed user id instead of verifying a token.
func newTestRouter(gen cardGenerator, store documentStore) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, testUserID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	generateHandler := NewGenerateHandler(gen, store)
	flashcardHandler := NewFlashcardHandler(store)
	collectionHandler := NewCollectionHandler(store)

	r.Post("/flashcards/generate", generateHandler.Generate)
	r.Get("/flashcards", flashcardHandler.List)
	r.Post("/flashcards", flashcardHandler.Create)
	r.Put("/flashcards/{id}", flashcardHandler.Update)
	r.Delete("/flashcards/{id}", flashcardHandler.Delete)
	r.Post("/collections", collectionHandler.Create)
	r.Delete("/collections/{id}", collectionHandler.Delete)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error body: %s", rr.Body.String())
	}
	return resp.Error.Code
}

// ─── Generate ───

func TestGenerate_SuccessPersistsCards(t *testing.T) {
	store := newMemoryStore()
	h := newTestRouter(&stubGenerator{cards: tenCards()}, store)

	rr := doJSON(t, h, http.MethodPost, "/flashcards/generate", map[string]string{"topic": "photosynthesis"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.GenerateFlashcardsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Flashcards) != 10 {
		t.Fatalf("expected 10 cards in response, got %d", len(resp.Flashcards))
	}
	for i, card := range resp.Flashcards {
		if card.ID == "" {
			t.Errorf("card %d has no id", i)
		}
		if card.Front == "" || card.Back == "" {
			t.Errorf("card %d has an empty side", i)
		}
	}

	doc, _ := store.Get(context.Background(), testUserID)
	if len(doc.Flashcards) != 10 {
		t.Errorf("expected 10 persisted cards, got %d", len(doc.Flashcards))
	}
}

func TestGenerate_PipelineErrorsMapToCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"upstream failure", &services.UpstreamError{Err: fmt.Errorf("boom")}, "UPSTREAM_ERROR"},
		{"unparseable response", &services.UnparseableError{Reason: "garbage"}, "UNPARSEABLE_RESPONSE"},
		{"shape violation", &services.ShapeError{Detail: "not an array"}, "BAD_SHAPE"},
		{"count violation", &services.CountError{Want: 10, Got: 2}, "BAD_COUNT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(&stubGenerator{err: tc.err}, newMemoryStore())

			rr := doJSON(t, h, http.MethodPost, "/flashcards/generate", map[string]string{"topic": "x"})
			if rr.Code != http.StatusBadGateway {
				t.Fatalf("expected 502, got %d", rr.Code)
			}
			if code := errorCode(t, rr); code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, code)
			}
		})
	}
}

func TestGenerate_NoPersistOnValidationFailure(t *testing.T) {
	store := newMemoryStore()
	h := newTestRouter(&stubGenerator{err: &services.CountError{Want: 10, Got: 2}}, store)

	doJSON(t, h, http.MethodPost, "/flashcards/generate", map[string]string{"topic": "x"})

	doc, _ := store.Get(context.Background(), testUserID)
	if len(doc.Flashcards) != 0 {
		t.Errorf("cards persisted despite validation failure: %d", len(doc.Flashcards))
	}
}

func TestGenerate_UnknownCollectionRejected(t *testing.T) {
	h := newTestRouter(&stubGenerator{cards: tenCards()}, newMemoryStore())

	rr := doJSON(t, h, http.MethodPost, "/flashcards/generate",
		map[string]string{"topic": "x", "collection_id": "no-such-collection"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGenerate_InvalidBody(t *testing.T) {
	h := newTestRouter(&stubGenerator{cards: tenCards()}, newMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/flashcards/generate", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ─── Flashcard CRUD ───

func seedStore(t *testing.T, store *memoryStore) {
	t.Helper()
	colID := "col-1"
	doc := models.NewUserDocument()
	doc.AddCollection(models.Collection{ID: colID, Name: "Biology"})
	doc.AppendFlashcards([]models.Flashcard{
		{ID: "card-1", Front: "Q1", Back: "A1", CollectionID: &colID, CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "card-2", Front: "Q2", Back: "A2", CollectionID: &colID, CreatedAt: time.Unix(200, 0).UTC()},
		{ID: "card-3", Front: "Q3", Back: "A3", CollectionID: &colID, CreatedAt: time.Unix(300, 0).UTC()},
	})
	store.docs[testUserID] = doc
}

func TestUpdateFlashcard_PartialEditPreservesOtherFields(t *testing.T) {
	store := newMemoryStore()
	seedStore(t, store)
	h := newTestRouter(&stubGenerator{}, store)

	rr := doJSON(t, h, http.MethodPut, "/flashcards/card-2", map[string]string{"front": "Q2 edited"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var card models.Flashcard
	if err := json.Unmarshal(rr.Body.Bytes(), &card); err != nil {
		t.Fatal(err)
	}
	if card.ID != "card-2" {
		t.Errorf("id changed: %s", card.ID)
	}
	if card.Front != "Q2 edited" {
		t.Errorf("front not updated: %s", card.Front)
	}
	if card.Back != "A2" {
		t.Errorf("back changed: %s", card.Back)
	}
	if card.CollectionID == nil || *card.CollectionID != "col-1" {
		t.Error("collection assignment changed")
	}

	doc, _ := store.Get(context.Background(), testUserID)
	if len(doc.Flashcards) != 3 {
		t.Errorf("array length changed: %d", len(doc.Flashcards))
	}
}

func TestUpdateFlashcard_UnknownID(t *testing.T) {
	store := newMemoryStore()
	seedStore(t, store)
	h := newTestRouter(&stubGenerator{}, store)

	rr := doJSON(t, h, http.MethodPut, "/flashcards/nope", map[string]string{"front": "x"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateFlashcard_RequiresBothSides(t *testing.T) {
	h := newTestRouter(&stubGenerator{}, newMemoryStore())

	rr := doJSON(t, h, http.MethodPost, "/flashcards", map[string]string{"front": "only front"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteFlashcard(t *testing.T) {
	store := newMemoryStore()
	seedStore(t, store)
	h := newTestRouter(&stubGenerator{}, store)

	rr := doJSON(t, h, http.MethodDelete, "/flashcards/card-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	doc, _ := store.Get(context.Background(), testUserID)
	if len(doc.Flashcards) != 2 {
		t.Errorf("expected 2 cards after delete, got %d", len(doc.Flashcards))
	}
}

// ─── Collections ───

func TestDeleteCollection_CascadeKeepsCards(t *testing.T) {
	store := newMemoryStore()
	seedStore(t, store)
	h := newTestRouter(&stubGenerator{}, store)

	rr := doJSON(t, h, http.MethodDelete, "/collections/col-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	doc, _ := store.Get(context.Background(), testUserID)
	if len(doc.Collections) != 0 {
		t.Errorf("collection not removed: %d left", len(doc.Collections))
	}
	if len(doc.Flashcards) != 3 {
		t.Errorf("flashcard count changed: %d", len(doc.Flashcards))
	}
	for _, card := range doc.Flashcards {
		if card.CollectionID != nil {
			t.Errorf("card %s still references deleted collection", card.ID)
		}
	}
}

func TestCreateCollection_BlankNameRejected(t *testing.T) {
	h := newTestRouter(&stubGenerator{}, newMemoryStore())

	rr := doJSON(t, h, http.MethodPost, "/collections", map[string]string{"name": "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ─── List ───

func TestListReturnsWholeDocument(t *testing.T) {
	store := newMemoryStore()
	seedStore(t, store)
	h := newTestRouter(&stubGenerator{}, store)

	rr := doJSON(t, h, http.MethodGet, "/flashcards", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var doc models.UserDocument
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Flashcards) != 3 || len(doc.Collections) != 1 {
		t.Errorf("unexpected document: %d cards, %d collections", len(doc.Flashcards), len(doc.Collections))
	}
}
