package chromem

import (
	"context"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/bububa/kichat/components/vectordb"
)

type Engine struct {
	db *chromem.DB
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db *chromem.DB, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	ret.EngineType = vectordb.Chromem
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// NewPersistent opens or creates the database stored under path
func NewPersistent(path string, compress bool, opts ...vectordb.Option) (*Engine, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, err
	}
	opts = append([]vectordb.Option{vectordb.WithPath(path), vectordb.WithCompress(compress)}, opts...)
	return New(db, opts...), nil
}

// Collection returns the named collection. Vectors are always supplied by the caller,
// so the collection has no embedding function of its own.
func (e *Engine) Collection(_ context.Context, name string) (*chromem.Collection, error) {
	return e.db.GetOrCreateCollection(name, nil, nil)
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	if len(records) == 0 {
		return nil
	}
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(records))
	for _, record := range records {
		var doc chromem.Document
		recordToDocument(&record, &doc)
		docs = append(docs, doc)
	}
	return col.AddDocuments(ctx, docs, runtime.NumCPU())
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	col, err := e.Collection(ctx, option.Collection)
	if err != nil {
		return nil, err
	}
	// chromem rejects more results than documents
	topK := min(e.ResolveTopK(option.TopK), col.Count())
	if topK == 0 {
		return nil, nil
	}
	var whereDocument map[string]string
	if option.Include != "" || option.Exclude != "" {
		whereDocument = make(map[string]string, 2)
		if option.Include != "" {
			whereDocument["$contains"] = option.Include
		}
		if option.Exclude != "" {
			whereDocument["$not_contains"] = option.Exclude
		}
	}
	results, err := col.QueryEmbedding(ctx, vectordb.Float32s(vectors), topK, option.Meta, whereDocument)
	if err != nil {
		return nil, err
	}
	searchResults := make([]vectordb.Record, 0, len(results))
	for _, result := range results {
		var rec vectordb.Record
		resultToRecord(&result, &rec)
		if e.MinScore > 0 && rec.Score < e.MinScore {
			continue
		}
		searchResults = append(searchResults, rec)
	}
	return searchResults, nil
}

func resultToRecord(res *chromem.Result, record *vectordb.Record) {
	record.ID = res.ID
	record.Score = float64(res.Similarity)
	record.Embedding.Object = res.Content
	record.Embedding.Meta = res.Metadata
	record.Embedding.Embedding = vectordb.Float64s(res.Embedding)
}

func recordToDocument(record *vectordb.Record, doc *chromem.Document) {
	if record.ID == "" {
		record.ID = record.Embedding.UUID()
	}
	doc.ID = record.ID
	doc.Content = record.Embedding.Object
	doc.Metadata = record.Embedding.Meta
	doc.Embedding = vectordb.Float32s(record.Embedding.Embedding)
}
