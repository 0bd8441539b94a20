package embedder

import "errors"

var (
	// ErrInvalidParameter is returned when chunking parameters would not make progress
	ErrInvalidParameter = errors.New("invalid chunking parameter")
	// ErrTokenizerUnavailable is returned when the tokenizer could not be loaded or failed to encode/decode
	ErrTokenizerUnavailable = errors.New("tokenizer unavailable")
	// ErrEmbeddingMismatch is returned when a provider returns a different number of embeddings than requested
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
