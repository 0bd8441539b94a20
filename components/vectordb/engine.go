package vectordb

import (
	"context"
)

type EngineType string

const (
	Memory  EngineType = "memory"
	Chromem EngineType = "chromem"
)

// Engine stores embedded chunks in named collections and ranks them by cosine similarity
type Engine interface {
	// Insert upserts records by ID. Records without ID get the UUID of their embedding.
	Insert(ctx context.Context, collection string, records ...Record) error
	// Search returns at most TopK records, most similar first. An empty collection yields nil.
	Search(ctx context.Context, vector []float64, opts ...SearchOption) ([]Record, error)
	// Count returns the number of stored records
	Count(ctx context.Context, collection string) (int, error)
}
