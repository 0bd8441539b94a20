package document

import (
	"bytes"
	"context"
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// HTML2MDParser converts an html page to markdown
type HTML2MDParser struct {
	domain string
	opts   []converter.ConvertOptionFunc
}

var _ Parser = (*HTML2MDParser)(nil)

// NewHTML2MDParser returns a parser resolving relative links against domain, e.g. https://example.org.
// An empty domain leaves links untouched.
func NewHTML2MDParser(domain string, opts ...converter.ConvertOptionFunc) *HTML2MDParser {
	return &HTML2MDParser{
		domain: domain,
		opts:   opts,
	}
}

// Domain returns the base links are resolved against
func (h *HTML2MDParser) Domain() string {
	return h.domain
}

// Parse writes the markdown of the html read from reader, surrounding blank lines are dropped
func (h *HTML2MDParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	opts := h.opts
	if h.domain != "" {
		opts = append([]converter.ConvertOptionFunc{converter.WithDomain(h.domain)}, opts...)
	}
	bs, err := htmltomarkdown.ConvertReader(reader, opts...)
	if err != nil {
		return err
	}
	_, err = writer.Write(bytes.TrimSpace(bs))
	return err
}
