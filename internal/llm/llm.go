package llm

import (
	"context"
	"errors"
)

// CompletionClient produces model text for a single user-role prompt.
// Implementations choose model and sampling temperature at construction.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// EmbeddingClient converts text into a fixed-dimension dense vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotConfigured is returned by the placeholder clients.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderCompletion is a stub implementation until provider wiring is added.
type PlaceholderCompletion struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// PlaceholderEmbedding is a stub implementation until provider wiring is added.
type PlaceholderEmbedding struct{}

// Embed returns ErrNotConfigured.
func (PlaceholderEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}
