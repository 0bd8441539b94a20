package embedder

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// vocabularies are embedded in the binary, encodings never hit the network
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// DefaultEncoding is the tiktoken vocabulary chunk boundaries are computed with.
// Changing it changes every stored chunk, so it is pinned.
const DefaultEncoding = "cl100k_base"

// Tokenizer encodes text to integer token ids and decodes arbitrary slices of them back to text.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(tokens []int) (string, error)
}

// TikToken provides tokenization using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
// It is read-only after construction and safe for concurrent use.
type TikToken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

var _ Tokenizer = (*TikToken)(nil)

// NewTikToken creates a new TikToken tokenizer using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "p50k_base" (GPT-3)
// - "r50k_base" (Codex)
func NewTikToken(encoding string) (*TikToken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get encoding %s: %w", ErrTokenizerUnavailable, encoding, err)
	}
	return &TikToken{encoding: encoding, tke: tke}, nil
}

// Encoding returns the name of the vocabulary
func (t *TikToken) Encoding() string {
	return t.encoding
}

// Encode returns the token ids of text. Special tokens are encoded as plain text.
func (t *TikToken) Encode(text string) ([]int, error) {
	if t == nil || t.tke == nil {
		return nil, ErrTokenizerUnavailable
	}
	return t.tke.Encode(text, nil, nil), nil
}

// Decode returns the text of a token slice. A window edge can split a multi-byte rune,
// the broken bytes are replaced with U+FFFD.
func (t *TikToken) Decode(tokens []int) (string, error) {
	if t == nil || t.tke == nil {
		return "", ErrTokenizerUnavailable
	}
	return strings.ToValidUTF8(t.tke.Decode(tokens), "�"), nil
}

// Count returns the number of tokens in text
func (t *TikToken) Count(text string) int {
	tokens, err := t.Encode(text)
	if err != nil {
		return 0
	}
	return len(tokens)
}
