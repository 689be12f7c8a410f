package ai

import (
	"context"
	"errors"
)

// Package ai contains the abstraction over the external one-word-answer language model.

var (
	// ErrNotConfigured is returned when no API credential is available.
	ErrNotConfigured = errors.New("API Key missing")
	// ErrUpstream is returned when the upstream call fails or answers with a non-success status.
	ErrUpstream = errors.New("AI Error")
)

// Answerer asks a chat model a single prompt and returns the raw text of its first choice.
// Implementations must be safe for concurrent use.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}
