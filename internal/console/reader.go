package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	multiLineMarker = `"""`
	pasteEnd        = "END"
	maxLineBytes    = 1 << 20
)

type line struct {
	text string
	err  error
}

// LineReader reads user input line by line. A blocked read returns when its context is done.
type LineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
	lines   chan line
	once    sync.Once
}

func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineReader{
		scanner: scanner,
		out:     out,
		lines:   make(chan line),
	}
}

func (r *LineReader) scan() {
	for r.scanner.Scan() {
		r.lines <- line{text: r.scanner.Text()}
	}
	err := r.scanner.Err()
	if err == nil {
		err = io.EOF
	}
	r.lines <- line{err: err}
	close(r.lines)
}

// ReadLine prints prompt and returns the next line without its line ending
func (r *LineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	r.once.Do(func() {
		go r.scan()
	})
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// ReadInput returns the next input. A line starting with """ collects the following
// lines up to a line that is only """. EOF also ends multi-line mode.
func (r *LineReader) ReadInput(ctx context.Context, prompt string) (string, error) {
	first, err := r.ReadLine(ctx, prompt)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(first)
	if !strings.HasPrefix(trimmed, multiLineMarker) {
		return first, nil
	}
	fmt.Fprintln(r.out, `Mehrzeilen-Modus (beende mit """ auf neuer Zeile)`)
	var lines []string
	if rest := strings.TrimPrefix(trimmed, multiLineMarker); rest != "" {
		lines = append(lines, rest)
	}
	for {
		next, err := r.ReadLine(ctx, "... ")
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(next) == multiLineMarker {
			break
		}
		lines = append(lines, next)
	}
	return strings.Join(lines, "\n"), nil
}

// ReadPaste collects lines up to a line END, in any case, or EOF
func (r *LineReader) ReadPaste(ctx context.Context) ([]string, error) {
	var lines []string
	for {
		next, err := r.ReadLine(ctx, "│ ")
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(strings.TrimSpace(next), pasteEnd) {
			return lines, nil
		}
		lines = append(lines, next)
	}
}
