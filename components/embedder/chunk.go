package embedder

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// Embedding is a special format of data representation that can be easily utilized by machine
// learning models and algorithms. The embedding is an information dense representation of the
// semantic meaning of a piece of text. Each embedding is a vector of floating point numbers,
// such that the distance between two embeddings in the vector space is correlated with semantic similarity
// between two inputs in the original format.
type Embedding struct {
	Object    string            `json:"object"`
	Embedding []float64         `json:"embedding"`
	Index     int               `json:"index"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// UUID returns a stable name based uuid of the embedded text and its metadata
func (e Embedding) UUID() string {
	sb := new(bytes.Buffer)
	sb.WriteString(e.Object)
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k + ":" + e.Meta[k])
		sb.WriteByte('\n')
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, sb.Bytes()).String()
}

// Span is a half-open range [Start, End) of token offsets
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Chunk represents a piece of text with associated metadata for tracking its position
// and size within the original token sequence.
type Chunk struct {
	// Text contains the decoded content of the chunk
	Text string
	// TokenSize represents the number of tokens in this chunk
	TokenSize int
	// Start is the offset of the first token in this chunk
	Start int
	// End is the offset after the last token in this chunk (exclusive)
	End int
}

// Span returns the token range of the chunk
func (c Chunk) Span() Span {
	return Span{Start: c.Start, End: c.End}
}

// Texts returns the text of every chunk in order
func Texts(chunks []Chunk) []string {
	ret := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ret = append(ret, c.Text)
	}
	return ret
}
