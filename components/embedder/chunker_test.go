package embedder

import (
	"errors"
	"strings"
	"testing"
)

// runeTokenizer maps every rune to one token
type runeTokenizer struct {
	encodeCalls int
	fail        bool
}

func (t *runeTokenizer) Encode(text string) ([]int, error) {
	t.encodeCalls++
	if t.fail {
		return nil, errors.New("vocabulary not loaded")
	}
	ret := make([]int, 0, len(text))
	for _, r := range text {
		ret = append(ret, int(r))
	}
	return ret, nil
}

func (t *runeTokenizer) Decode(tokens []int) (string, error) {
	var sb strings.Builder
	for _, v := range tokens {
		sb.WriteRune(rune(v))
	}
	return sb.String(), nil
}

func TestWindows(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		maxTokens int
		overlap   int
		want      []Span
		wantErr   bool
	}{
		{
			name:      "300 tokens with default window",
			n:         300,
			maxTokens: 256,
			overlap:   64,
			want:      []Span{{0, 256}, {192, 300}},
		},
		{
			name:      "no overlap",
			n:         10,
			maxTokens: 4,
			overlap:   0,
			want:      []Span{{0, 4}, {4, 8}, {8, 10}},
		},
		{
			name:      "fits into one window",
			n:         5,
			maxTokens: 5,
			overlap:   1,
			want:      []Span{{0, 5}},
		},
		{
			name:      "empty input",
			n:         0,
			maxTokens: 8,
			overlap:   2,
			want:      []Span{{0, 0}},
		},
		{
			name:      "last window exactly at the end",
			n:         7,
			maxTokens: 4,
			overlap:   1,
			want:      []Span{{0, 4}, {3, 7}},
		},
		{name: "zero max tokens", n: 10, maxTokens: 0, overlap: 0, wantErr: true},
		{name: "negative max tokens", n: 10, maxTokens: -1, overlap: 0, wantErr: true},
		{name: "overlap equals max tokens", n: 10, maxTokens: 4, overlap: 4, wantErr: true},
		{name: "overlap larger than max tokens", n: 10, maxTokens: 4, overlap: 9, wantErr: true},
		{name: "negative overlap", n: 10, maxTokens: 4, overlap: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Windows(tt.n, tt.maxTokens, tt.overlap)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("expect ErrInvalidParameter, but got %v", err)
				}
				if len(got) != 0 {
					t.Errorf("expect no spans, but got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expect %v, but got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d: expect %v, but got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestWindowsProperties(t *testing.T) {
	for n := 1; n <= 60; n++ {
		for maxTokens := 1; maxTokens <= 12; maxTokens++ {
			for overlap := 0; overlap < maxTokens; overlap++ {
				spans, err := Windows(n, maxTokens, overlap)
				if err != nil {
					t.Fatalf("n=%d max=%d overlap=%d: %v", n, maxTokens, overlap, err)
				}
				if spans[0].Start != 0 || spans[len(spans)-1].End != n {
					t.Fatalf("n=%d max=%d overlap=%d: spans do not cover [0, n): %v", n, maxTokens, overlap, spans)
				}
				for i, s := range spans {
					if s.Len() > maxTokens {
						t.Fatalf("n=%d max=%d overlap=%d: span %v exceeds window", n, maxTokens, overlap, s)
					}
					if i == 0 {
						continue
					}
					prev := spans[i-1]
					if s.Start > prev.End {
						t.Fatalf("n=%d max=%d overlap=%d: gap between %v and %v", n, maxTokens, overlap, prev, s)
					}
					shared := prev.End - s.Start
					if i < len(spans)-1 || s.Len() == maxTokens {
						if shared != overlap {
							t.Fatalf("n=%d max=%d overlap=%d: expect overlap %d, but got %d", n, maxTokens, overlap, overlap, shared)
						}
					} else if shared < overlap {
						t.Fatalf("n=%d max=%d overlap=%d: final overlap %d below %d", n, maxTokens, overlap, shared, overlap)
					}
				}
				if n > maxTokens {
					step := maxTokens - overlap
					want := (n - overlap + step - 1) / step
					if len(spans) != want {
						t.Fatalf("n=%d max=%d overlap=%d: expect %d spans, but got %d", n, maxTokens, overlap, want, len(spans))
					}
				} else if len(spans) != 1 {
					t.Fatalf("n=%d max=%d overlap=%d: expect a single span, but got %d", n, maxTokens, overlap, len(spans))
				}
			}
		}
	}
}

func TestWindowChunker(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxTokens int
		overlap   int
		want      []string
	}{
		{
			name:      "overlapping windows",
			input:     "abcdefghij",
			maxTokens: 4,
			overlap:   1,
			want:      []string{"abcd", "defg", "ghij"},
		},
		{
			name:      "single chunk",
			input:     "Mainz",
			maxTokens: 256,
			overlap:   64,
			want:      []string{"Mainz"},
		},
		{
			name:      "multi byte runes",
			input:     "äöüßÄÖÜ",
			maxTokens: 3,
			overlap:   1,
			want:      []string{"äöü", "üßÄ", "ÄÖÜ"},
		},
		{
			name:      "empty text",
			input:     "",
			maxTokens: 4,
			overlap:   1,
			want:      []string{""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewWindowChunker(WithTokenizer(new(runeTokenizer)), WithMaxTokens(tt.maxTokens), WithOverlap(tt.overlap))
			if err != nil {
				t.Fatal(err)
			}
			chunks, err := chunker.Chunk(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			got := Texts(chunks)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("expect %q, but got %q", tt.want, got)
			}
			for _, c := range chunks {
				if c.TokenSize > tt.maxTokens {
					t.Errorf("chunk %q has %d tokens, more than %d", c.Text, c.TokenSize, tt.maxTokens)
				}
			}
		})
	}
}

func TestChunkInvalidParameterBeforeWork(t *testing.T) {
	tk := new(runeTokenizer)
	chunks, err := ChunkText(tk, strings.Repeat("x", 100), 4, 4)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expect ErrInvalidParameter, but got %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expect no chunks, but got %d", len(chunks))
	}
	if tk.encodeCalls != 0 {
		t.Errorf("expect tokenizer to be untouched, but Encode was called %d times", tk.encodeCalls)
	}
}

func TestChunkTokenizerFailure(t *testing.T) {
	_, err := ChunkText(&runeTokenizer{fail: true}, "Wetter in Mainz", 4, 1)
	if !errors.Is(err, ErrTokenizerUnavailable) {
		t.Fatalf("expect ErrTokenizerUnavailable, but got %v", err)
	}
	if _, err := NewWindowChunker(); !errors.Is(err, ErrTokenizerUnavailable) {
		t.Errorf("expect ErrTokenizerUnavailable without tokenizer, but got %v", err)
	}
}

func TestBatches(t *testing.T) {
	parts := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		size int
		want int
	}{
		{size: 0, want: 1},
		{size: 2, want: 3},
		{size: 5, want: 1},
		{size: 10, want: 1},
	}
	for _, tt := range tests {
		got := Batches(parts, tt.size)
		if len(got) != tt.want {
			t.Errorf("size %d: expect %d batches, but got %d", tt.size, tt.want, len(got))
		}
		var total int
		for _, b := range got {
			total += len(b)
		}
		if total != len(parts) {
			t.Errorf("size %d: expect %d parts, but got %d", tt.size, len(parts), total)
		}
	}
}
