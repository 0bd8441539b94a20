package embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/bububa/kichat/components"
)

// Embedder turns text into embedding vectors
type Embedder interface {
	Model() string
	Embed(context.Context, string, *Embedding, *components.Usage) error
	// BatchEmbed embeds parts and returns one embedding per part in input order
	BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]Embedding, error)
}

// EmbedChunks embeds the text of every chunk. The result is index aligned with chunks.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []Chunk, usage *components.Usage) ([]Embedding, error) {
	ret, err := embedder.BatchEmbed(ctx, Texts(chunks), usage)
	if err != nil {
		return nil, err
	}
	if len(ret) != len(chunks) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrEmbeddingMismatch, len(chunks), len(ret))
	}
	return ret, nil
}

// DotProduct calculates the dot product of the embedding vector with another
// embedding vector. Both vectors must have the same length.
func (e *Embedding) DotProduct(other *Embedding) (float64, error) {
	if len(e.Embedding) != len(other.Embedding) {
		return 0, errors.New("vector length mismatch")
	}

	var dotProduct float64
	for i := range e.Embedding {
		dotProduct += e.Embedding[i] * other.Embedding[i]
	}

	return dotProduct, nil
}
