package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}

// TextParser copies plain text unchanged
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

func (TextParser) Parse(_ context.Context, reader *bytes.Reader, writer io.Writer) error {
	_, err := io.Copy(writer, reader)
	return err
}

// ParserFor returns the parser handling MIME type m or its closest parent type
func ParserFor(m *mimetype.MIME) (Parser, error) {
	for mt := m; mt != nil; mt = mt.Parent() {
		switch {
		case mt.Is("application/pdf"):
			return NewPDFParser(), nil
		case mt.Is("text/html"):
			return NewHTML2MDParser(""), nil
		case mt.Is("text/plain"):
			return new(TextParser), nil
		}
	}
	name := "unknown"
	if m != nil {
		name = m.String()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
}

// Text loads src and returns its text using the parser matching the detected type
func Text(ctx context.Context, src Source) (string, error) {
	if err := src.ReadAll(ctx); err != nil {
		return "", err
	}
	parser, err := ParserFor(src.MIME())
	if err != nil {
		return "", err
	}
	if p, ok := parser.(*HTML2MDParser); ok && p.domain == "" {
		p.domain = origin(src.Meta()["url"])
	}
	var sb strings.Builder
	if err := parser.Parse(ctx, src.Reader(), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// origin returns scheme://host of link, empty for anything but an absolute url
func origin(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
