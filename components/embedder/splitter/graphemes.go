package splitter

import (
	"bytes"

	"github.com/clipperhouse/uax29/graphemes"
)

// Truncate cuts text after limit grapheme clusters. It reports whether anything was cut.
// Clusters are never split, so combining marks and emoji survive intact.
func Truncate(text string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	// a cluster holds at least one byte
	if len(text) <= limit {
		return text, false
	}
	segments := graphemes.SegmentAll([]byte(text))
	if len(segments) <= limit {
		return text, false
	}
	return string(bytes.Join(segments[:limit], nil)), true
}

// Ellipsis truncates text to limit grapheme clusters and appends "..." when it was cut
func Ellipsis(text string, limit int) string {
	ret, cut := Truncate(text, limit)
	if cut {
		return ret + "..."
	}
	return ret
}

// Len returns the number of grapheme clusters in text
func Len(text string) int {
	return new(GraphemesTokenCounter).Count([]byte(text))
}
