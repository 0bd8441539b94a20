package vectordb

import (
	"strconv"

	"github.com/bububa/kichat/components/embedder"
)

type SearchOptions struct {
	Collection string
	TopK       int
	Meta       map[string]string
	Include    string
	Exclude    string
}

type SearchOption func(*SearchOptions)

func SearchWithCollection(name string) SearchOption {
	return func(r *SearchOptions) {
		r.Collection = name
	}
}

func SearchWithTopK(topK int) SearchOption {
	return func(r *SearchOptions) {
		r.TopK = topK
	}
}

func SearchWithMeta(meta map[string]string) SearchOption {
	return func(r *SearchOptions) {
		r.Meta = meta
	}
}

// SearchWithInclude keeps records whose text contains v
func SearchWithInclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Include = v
	}
}

// SearchWithExclude drops records whose text contains v
func SearchWithExclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Exclude = v
	}
}

// Record represents a single result from a vector similarity search.
type Record struct {
	// ID is the identifier for the result
	ID string
	// Score is the cosine similarity to the query, higher is closer
	Score float64
	// Embedding embeddings for doc
	Embedding embedder.Embedding
}

// Source returns the "source" metadata
func (r Record) Source() string {
	return r.Embedding.Meta["source"]
}

// ChunkID returns the "chunk_id" metadata, -1 if missing
func (r Record) ChunkID() int {
	v, err := strconv.Atoi(r.Embedding.Meta["chunk_id"])
	if err != nil {
		return -1
	}
	return v
}
