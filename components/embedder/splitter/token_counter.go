package splitter

import (
	"github.com/clipperhouse/uax29/graphemes"
)

// TokenCounter defines the interface for counting tokens in a string.
type TokenCounter interface {
	// Count returns the number of tokens in the given text according to the
	// implementation's tokenization strategy.
	Count(p []byte) int
}

// GraphemesTokenCounter counts user perceived characters
type GraphemesTokenCounter struct{}

var _ TokenCounter = (*GraphemesTokenCounter)(nil)

func (c *GraphemesTokenCounter) Count(p []byte) int {
	return len(graphemes.SegmentAll(p))
}
