package models

import (
	"time"
)

// Flashcard is one front/back study pair owned by a single user. CollectionID
// is nil for cards that belong to no collection.
type Flashcard struct {
	ID           string    `json:"id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	CollectionID *string   `json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Collection is a named grouping of flashcards.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GeneratedCard is the pre-persistence shape produced by the generation
// pipeline: front/back only, no identity yet.
type GeneratedCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// UserDocument is the per-user aggregate holding every flashcard and
// collection that user owns. It is stored as a single JSONB document and
// mutated through the methods below so each write replaces the whole thing.
type UserDocument struct {
	Flashcards  []Flashcard  `json:"flashcards"`
	Collections []Collection `json:"collections"`
}

// NewUserDocument returns an empty document with both arrays present, so the
// stored JSON always has the same shape.
func NewUserDocument() *UserDocument {
	return &UserDocument{
		Flashcards:  []Flashcard{},
		Collections: []Collection{},
	}
}

// AppendFlashcards adds cards to the end of the flashcards array. Appending
// nothing leaves the document untouched.
func (d *UserDocument) AppendFlashcards(cards []Flashcard) {
	if len(cards) == 0 {
		return
	}
	d.Flashcards = append(d.Flashcards, cards...)
}

// UpsertFlashcard replaces the card whose id matches, or appends when no
// card has that id. Returns true when an existing card was replaced.
func (d *UserDocument) UpsertFlashcard(card Flashcard) bool {
	for i := range d.Flashcards {
		if d.Flashcards[i].ID == card.ID {
			d.Flashcards[i] = card
			return true
		}
	}
	d.Flashcards = append(d.Flashcards, card)
	return false
}

// FindFlashcard returns a copy of the card with the given id.
func (d *UserDocument) FindFlashcard(id string) (Flashcard, bool) {
	for i := range d.Flashcards {
		if d.Flashcards[i].ID == id {
			return d.Flashcards[i], true
		}
	}
	return Flashcard{}, false
}

// DeleteFlashcard removes the card with the given id. Returns false when the
// id is unknown.
func (d *UserDocument) DeleteFlashcard(id string) bool {
	for i := range d.Flashcards {
		if d.Flashcards[i].ID == id {
			d.Flashcards = append(d.Flashcards[:i], d.Flashcards[i+1:]...)
			return true
		}
	}
	return false
}

// AddCollection appends a collection to the collections array.
func (d *UserDocument) AddCollection(c Collection) {
	d.Collections = append(d.Collections, c)
}

// FindCollection returns the collection with the given id.
func (d *UserDocument) FindCollection(id string) (Collection, bool) {
	for i := range d.Collections {
		if d.Collections[i].ID == id {
			return d.Collections[i], true
		}
	}
	return Collection{}, false
}

// DeleteCollection removes the collection and nulls collection_id on every
// flashcard that referenced it. The cards themselves are never deleted.
// Returns false when the id is unknown.
func (d *UserDocument) DeleteCollection(id string) bool {
	found := false
	for i := range d.Collections {
		if d.Collections[i].ID == id {
			d.Collections = append(d.Collections[:i], d.Collections[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for i := range d.Flashcards {
		if d.Flashcards[i].CollectionID != nil && *d.Flashcards[i].CollectionID == id {
			d.Flashcards[i].CollectionID = nil
		}
	}
	return true
}
