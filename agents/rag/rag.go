// Package rag ingests documents into a vector store and searches them by meaning
package rag

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/document"
	"github.com/bububa/kichat/components/embedder"
	"github.com/bububa/kichat/components/vectordb"
)

const (
	DefaultCollection = "notenbuch_embeddings"
	DefaultTopK       = 5
)

// ErrNoText is returned when a document yields no text after cleaning
var ErrNoText = document.ErrNoText

type Options struct {
	name          string
	collection    string
	embedder      embedder.Embedder
	chunker       embedder.Chunker
	vectordb      vectordb.Engine
	searchOptions []vectordb.SearchOption
	onChunked     func(source string, chunks int)
}

type Option func(*Options)

func WithName(name string) Option {
	return func(r *Options) {
		r.name = name
	}
}

func WithCollection(name string) Option {
	return func(r *Options) {
		r.collection = name
	}
}

func WithChunker(chunker embedder.Chunker) Option {
	return func(r *Options) {
		r.chunker = chunker
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(r *Options) {
		r.embedder = e
	}
}

func WithVectorDB(v vectordb.Engine) Option {
	return func(r *Options) {
		r.vectordb = v
	}
}

func WithSearchOptions(opts ...vectordb.SearchOption) Option {
	return func(r *Options) {
		r.searchOptions = opts
	}
}

// WithOnChunked is called after a document was chunked, before it is embedded
func WithOnChunked(fn func(source string, chunks int)) Option {
	return func(r *Options) {
		r.onChunked = fn
	}
}

// Pipeline extracts, cleans, chunks, embeds and stores documents
type Pipeline struct {
	Options
}

func New(opts ...Option) (*Pipeline, error) {
	ret := new(Pipeline)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.embedder == nil || ret.chunker == nil || ret.vectordb == nil {
		return nil, errors.New("rag: embedder, chunker and vectordb are required")
	}
	if ret.collection == "" {
		ret.collection = DefaultCollection
	}
	return ret, nil
}

func (r *Pipeline) Name() string {
	return r.name
}

func (r *Pipeline) Collection() string {
	return r.collection
}

// Ingest stores the chunks of the document at path and returns how many were stored
func (r *Pipeline) Ingest(ctx context.Context, path string) (int, error) {
	f, err := document.NewFile(path)
	if err != nil {
		return 0, err
	}
	text, err := document.Text(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return r.IngestText(ctx, path, text)
}

// IngestText cleans and stores text under the record ids {source}_{i}
func (r *Pipeline) IngestText(ctx context.Context, source string, text string) (int, error) {
	text = document.Clean(text)
	if text == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoText, source)
	}
	chunks, err := r.chunker.Chunk(text)
	if err != nil {
		return 0, err
	}
	if r.onChunked != nil {
		r.onChunked(source, len(chunks))
	}
	usage := new(components.Usage)
	embeddings, err := embedder.EmbedChunks(ctx, r.embedder, chunks, usage)
	if err != nil {
		return 0, err
	}
	records := make([]vectordb.Record, 0, len(embeddings))
	for i, embedding := range embeddings {
		embedding.Meta = map[string]string{
			"source":   source,
			"chunk_id": strconv.Itoa(i),
		}
		records = append(records, vectordb.Record{
			ID:        fmt.Sprintf("%s_%d", source, i),
			Embedding: embedding,
		})
	}
	if err := r.vectordb.Insert(ctx, r.collection, records...); err != nil {
		return 0, err
	}
	log.Debug().Str("source", source).Int("chunks", len(records)).Int64("tokens", usage.InputTokens).Msg("ingested")
	return len(records), nil
}

// Search returns the n records closest to query, n <= 0 means DefaultTopK
func (r *Pipeline) Search(ctx context.Context, query string, n int) ([]vectordb.Record, error) {
	if n <= 0 {
		n = DefaultTopK
	}
	embedding := new(embedder.Embedding)
	if err := r.embedder.Embed(ctx, query, embedding, nil); err != nil {
		return nil, err
	}
	opts := append([]vectordb.SearchOption{
		vectordb.SearchWithCollection(r.collection),
		vectordb.SearchWithTopK(n),
	}, r.searchOptions...)
	return r.vectordb.Search(ctx, embedding.Embedding, opts...)
}

// PDFPaths keeps arguments ending in .pdf and expands the others as glob patterns
func PDFPaths(args []string) []string {
	var ret []string
	for _, arg := range args {
		if strings.HasSuffix(arg, ".pdf") {
			ret = append(ret, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if strings.HasSuffix(m, ".pdf") {
				ret = append(ret, m)
			}
		}
	}
	return ret
}
