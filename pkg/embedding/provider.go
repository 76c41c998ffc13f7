package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations must return unit-normalized vectors of a fixed dimension.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
