package models

// Request/response shapes for the HTTP API.

type GenerateFlashcardsRequest struct {
	Topic        string  `json:"topic"`
	CollectionID *string `json:"collection_id"`
}

type GenerateFlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

type CreateFlashcardRequest struct {
	Front        string  `json:"front"`
	Back         string  `json:"back"`
	CollectionID *string `json:"collection_id"`
}

// UpdateFlashcardRequest carries a partial edit. Nil fields are left
// untouched; an explicit empty collection_id clears the assignment.
type UpdateFlashcardRequest struct {
	Front        *string `json:"front"`
	Back         *string `json:"back"`
	CollectionID *string `json:"collection_id"`
}

type CreateCollectionRequest struct {
	Name string `json:"name"`
}

type CheckoutSessionRequest struct {
	Plan string `json:"plan"`
}

type CheckoutSessionResponse struct {
	ID string `json:"id"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
