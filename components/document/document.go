package document

import (
	"bytes"
	"context"
	"errors"
	"maps"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrReading is returned when a document is read while another read is in progress
	ErrReading = errors.New("document is reading")
	// ErrUnsupportedType is returned when no parser handles the detected MIME type
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoText is returned when a document yields no text
	ErrNoText = errors.New("document contains no text")
	// ErrHttpStatus is returned for non 2xx responses
	ErrHttpStatus = errors.New("unexpected http status")
)

type ReadStatus = int32

const (
	Unread ReadStatus = iota
	Reading
	ReadCompleted
)

// Source is a document that loads its content once
type Source interface {
	ReadAll(context.Context) error
	ReadStatus() ReadStatus
	Reader() *bytes.Reader
	Meta() map[string]string
	MIME() *mimetype.MIME
}

// Document is a document container with metadata
type Document struct {
	buffer *bytes.Buffer
	meta   map[string]string
}

// NewDocument wraps content that is already in memory
func NewDocument(content []byte, meta map[string]string) *Document {
	return &Document{
		buffer: bytes.NewBuffer(content),
		meta:   meta,
	}
}

func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.buffer.Bytes())
}

// Meta returns a copy of the document metadata
func (d *Document) Meta() map[string]string {
	return maps.Clone(d.meta)
}

// MIME detects the content type from the loaded bytes
func (d *Document) MIME() *mimetype.MIME {
	return mimetype.Detect(d.buffer.Bytes())
}

func (d *Document) Bytes() []byte {
	return d.buffer.Bytes()
}

func (d *Document) String() string {
	return d.buffer.String()
}

func (d *Document) Len() int {
	return d.buffer.Len()
}
