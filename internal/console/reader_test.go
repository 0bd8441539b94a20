package console

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestReadInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{"single", "Hallo\nWelt\n", []string{"Hallo", "Welt"}},
		{"multi line", "\"\"\"\nZeile eins\nZeile zwei\n\"\"\"\nDanach\n", []string{"Zeile eins\nZeile zwei", "Danach"}},
		{"text after marker", "\"\"\"Anfang\nEnde\n  \"\"\"  \n", []string{"Anfang\nEnde"}},
		{"eof ends multi line", "\"\"\"\noffen\n", []string{"offen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input), io.Discard)
			var got []string
			for {
				in, err := r.ReadInput(context.Background(), "> ")
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, in)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("Expect %q, but got %q", tt.expect, got)
			}
		})
	}
}

func TestReadPaste(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{"end marker", "eins\nzwei\nEND\ndanach\n", []string{"eins", "zwei"}},
		{"lower case end", "eins\n  end \n", []string{"eins"}},
		{"eof", "eins\nzwei", []string{"eins", "zwei"}},
		{"empty", "END\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input), io.Discard)
			got, err := r.ReadPaste(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("Expect %q, but got %q", tt.expect, got)
			}
		})
	}
}

func TestReadLineCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewLineReader(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.ReadLine(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Expect context.Canceled, but got %v", err)
	}
}

func TestReadLineAfterEOF(t *testing.T) {
	r := NewLineReader(strings.NewReader(""), io.Discard)
	for i := 0; i < 2; i++ {
		if _, err := r.ReadLine(context.Background(), ""); !errors.Is(err, io.EOF) {
			t.Errorf("read %d: Expect io.EOF, but got %v", i, err)
		}
	}
}
