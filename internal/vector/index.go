package vector

import "context"

// Match is one ranked nearest-neighbor result with its stored metadata.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Index abstracts a nearest-neighbor query against a persistent vector index.
type Index interface {
	Query(ctx context.Context, vec []float32, topK int, includeMetadata bool) ([]Match, error)
}

// PlaceholderIndex is a stub implementation that always returns no matches.
type PlaceholderIndex struct{}

// Query returns an empty result set.
func (PlaceholderIndex) Query(ctx context.Context, vec []float32, topK int, includeMetadata bool) ([]Match, error) {
	_ = ctx
	_ = vec
	_ = topK
	_ = includeMetadata
	return nil, nil
}
