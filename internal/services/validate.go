package services

import (
	"strconv"

	"brainwave-backend/internal/models"
)

// ValidateCards enforces the generation output contract: a list of exactly
// want cards, each side non-empty. No other content rules apply here.
func ValidateCards(cards []models.GeneratedCard, want int) error {
	if cards == nil {
		return &ShapeError{Detail: "result is not a list"}
	}
	if len(cards) != want {
		return &CountError{Want: want, Got: len(cards)}
	}
	for i, c := range cards {
		if c.Front == "" || c.Back == "" {
			return &ShapeError{Detail: "card " + strconv.Itoa(i) + " has an empty side"}
		}
	}
	return nil
}
