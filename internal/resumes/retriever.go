package resumes

import (
	"context"
	"fmt"

	"resumai-backend/internal/llm"
	"resumai-backend/internal/shared/telemetry"
	"resumai-backend/internal/vector"
)

// Example is one retrieved question/answer pair used to steer generation.
// Transient: produced for a single request and never persisted.
type Example struct {
	Question string
	Answer   string
	Score    float64
}

// Retriever embeds a combined answer text and looks up nearest-neighbor
// examples in the vector index. Connectivity failures propagate as
// ErrUpstream so the caller can abort before persisting anything; zero
// matches is a normal empty result.
type Retriever struct {
	Embeddings llm.EmbeddingClient
	Index      vector.Index
	TopK       int
}

// Retrieve returns up to TopK ranked examples for the given text.
func (r *Retriever) Retrieve(ctx context.Context, text string) ([]Example, error) {
	embedding, err := r.Embeddings.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", ErrUpstream, err)
	}

	matches, err := r.Index.Query(ctx, embedding, r.TopK, true)
	if err != nil {
		return nil, fmt.Errorf("%w: vector query: %v", ErrUpstream, err)
	}
	if len(matches) == 0 {
		telemetry.Warn("retriever.no_matches", map[string]any{"top_k": r.TopK})
		return []Example{}, nil
	}

	examples := make([]Example, 0, len(matches))
	for _, m := range matches {
		examples = append(examples, Example{
			Question: m.Metadata["question"],
			Answer:   m.Metadata["answer"],
			Score:    m.Score,
		})
	}
	return examples, nil
}
