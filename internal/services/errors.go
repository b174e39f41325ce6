package services

import "fmt"

// Generation pipeline failures. Each stage fails with its own type so the
// handler boundary can map them to distinct response codes.

// UpstreamError means the generation service call itself failed: transport
// error, timeout, or a completion with no text.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("generation service: %v", e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// UnparseableError means the raw completion matched neither the JSON
// envelope nor the delimited-text form.
type UnparseableError struct {
	Reason string
}

func (e *UnparseableError) Error() string { return "unparseable model response: " + e.Reason }

// ShapeError means the response parsed as JSON but the flashcards value was
// not an array of front/back objects.
type ShapeError struct {
	Detail string
}

func (e *ShapeError) Error() string { return "unexpected response shape: " + e.Detail }

// CountError means the parsed list had the wrong number of cards.
type CountError struct {
	Want int
	Got  int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("expected %d flashcards, got %d", e.Want, e.Got)
}
