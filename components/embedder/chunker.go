package embedder

import (
	"fmt"
)

const (
	// DefaultMaxTokens is the default window size in tokens
	DefaultMaxTokens = 256
	// DefaultOverlap is the default number of tokens shared by consecutive windows
	DefaultOverlap = 64
)

// Chunker defines the interface for text chunking implementations.
type Chunker interface {
	// Chunk splits the input text into an ordered slice of Chunks
	Chunk(text string) ([]Chunk, error)
}

// Windows returns the token spans of a sliding window over n tokens.
// Each span has at most maxTokens tokens, consecutive spans start maxTokens-overlap apart
// and the last span ends at n. Parameters are validated before any work is done.
func Windows(n, maxTokens, overlap int) ([]Span, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidParameter, maxTokens)
	}
	if overlap < 0 || overlap >= maxTokens {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidParameter, maxTokens, overlap)
	}
	if n <= maxTokens {
		return []Span{{Start: 0, End: max(n, 0)}}, nil
	}
	step := maxTokens - overlap
	spans := make([]Span, 0, (n-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := min(start+maxTokens, n)
		spans = append(spans, Span{Start: start, End: end})
		if end == n {
			break
		}
	}
	return spans, nil
}

// WindowChunker splits text into overlapping, token bounded chunks.
type WindowChunker struct {
	// maxTokens is the maximum size of each chunk in tokens
	maxTokens int
	// overlap is the number of tokens shared between adjacent chunks
	overlap int
	// tokenizer encodes the text and decodes every window
	tokenizer Tokenizer
}

var _ Chunker = (*WindowChunker)(nil)

// ChunkerOption is a function type for configuring WindowChunker instances.
type ChunkerOption func(*WindowChunker)

// WithMaxTokens sets the window size
func WithMaxTokens(n int) ChunkerOption {
	return func(c *WindowChunker) {
		c.maxTokens = n
	}
}

// WithOverlap sets the number of tokens consecutive windows share
func WithOverlap(n int) ChunkerOption {
	return func(c *WindowChunker) {
		c.overlap = n
	}
}

// WithTokenizer sets the tokenizer
func WithTokenizer(tk Tokenizer) ChunkerOption {
	return func(c *WindowChunker) {
		c.tokenizer = tk
	}
}

// NewWindowChunker creates a new WindowChunker with the given options.
// Defaults are 256 tokens per window with 64 tokens overlap.
// The parameters are validated here so a misconfigured chunker never reaches Chunk.
func NewWindowChunker(opts ...ChunkerOption) (*WindowChunker, error) {
	c := &WindowChunker{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := Windows(0, c.maxTokens, c.overlap); err != nil {
		return nil, err
	}
	if c.tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer configured", ErrTokenizerUnavailable)
	}
	return c, nil
}

// MaxTokens returns the window size
func (c *WindowChunker) MaxTokens() int {
	return c.maxTokens
}

// Overlap returns the window overlap
func (c *WindowChunker) Overlap() int {
	return c.overlap
}

// Chunk encodes text, slides the window over the tokens and decodes every window.
// A text that fits into one window is returned as a single re-decoded chunk.
func (c *WindowChunker) Chunk(text string) ([]Chunk, error) {
	if c.tokenizer == nil {
		return nil, ErrTokenizerUnavailable
	}
	if _, err := Windows(0, c.maxTokens, c.overlap); err != nil {
		return nil, err
	}
	tokens, err := c.tokenizer.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrTokenizerUnavailable, err)
	}
	spans, err := Windows(len(tokens), c.maxTokens, c.overlap)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(spans))
	for _, span := range spans {
		txt, err := c.tokenizer.Decode(tokens[span.Start:span.End])
		if err != nil {
			return nil, fmt.Errorf("%w: decode: %w", ErrTokenizerUnavailable, err)
		}
		chunks = append(chunks, Chunk{
			Text:      txt,
			TokenSize: span.Len(),
			Start:     span.Start,
			End:       span.End,
		})
	}
	return chunks, nil
}

// ChunkText splits text into overlapping windows of at most maxTokens tokens using tk.
func ChunkText(tk Tokenizer, text string, maxTokens, overlap int) ([]string, error) {
	c, err := NewWindowChunker(WithTokenizer(tk), WithMaxTokens(maxTokens), WithOverlap(overlap))
	if err != nil {
		return nil, err
	}
	chunks, err := c.Chunk(text)
	if err != nil {
		return nil, err
	}
	return Texts(chunks), nil
}
