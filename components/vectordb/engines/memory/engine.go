package memory

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bububa/kichat/components/vectordb"
)

// Engine implements the vectordb.Engine interface using in-memory storage.
// It provides thread-safe operations for managing collections and performing
// vector similarity searches without the need for external database systems.
type Engine struct {
	// collections stores all vector collections in memory
	collections *sync.Map
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

// Collection is a named set of records keyed by ID
type Collection struct {
	// records holds the actual records in insertion order
	records []vectordb.Record
	index   map[string]int
	// mu provides thread-safety for concurrent operations
	mu sync.RWMutex
}

// Upsert replaces records with a known ID and appends the others
func (c *Collection) Upsert(records ...vectordb.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		c.index = make(map[string]int, len(records))
	}
	for _, r := range records {
		if idx, ok := c.index[r.ID]; ok {
			c.records[idx] = r
			continue
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}
}

// Records returns a copy of the stored records
func (c *Collection) Records() []vectordb.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]vectordb.Record, len(c.records))
	copy(ret, c.records)
	return ret
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// New creates a new in-memory vector database instance.
func New(opts ...vectordb.Option) *Engine {
	ret := &Engine{
		collections: new(sync.Map),
	}
	ret.EngineType = vectordb.Memory
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// HasCollection checks if a collection with the given name exists in the database.
func (e *Engine) HasCollection(name string) bool {
	_, exists := e.collections.Load(name)
	return exists
}

// DropCollection removes a collection and all its data from the database.
func (e *Engine) DropCollection(name string) {
	e.collections.Delete(name)
}

// Collection returns the named collection, creating it on first use
func (e *Engine) Collection(_ context.Context, name string) *Collection {
	col, _ := e.collections.LoadOrStore(name, new(Collection))
	return col.(*Collection)
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	docs := make([]vectordb.Record, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = record.Embedding.UUID()
		}
		docs = append(docs, record)
	}
	e.Collection(ctx, collectionName).Upsert(docs...)
	return nil
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	return e.Collection(ctx, collectionName).Len(), nil
}

func (e *Engine) Search(ctx context.Context, vector []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	records := filterRecords(e.Collection(ctx, option.Collection).Records(), &option)
	if len(records) == 0 {
		return nil, nil
	}
	scored := records[:0]
	for _, record := range records {
		record.Score = vectordb.Cosine(vector, record.Embedding.Embedding)
		if e.MinScore > 0 && record.Score < e.MinScore {
			continue
		}
		scored = append(scored, record)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].ID < scored[j].ID
		}
		return scored[i].Score > scored[j].Score
	})
	topK := min(e.ResolveTopK(option.TopK), len(scored))
	if topK == 0 {
		return nil, nil
	}
	return scored[:topK], nil
}

// filterRecords filters records by metadata and content.
// It does this concurrently.
func filterRecords(docs []vectordb.Record, opts *vectordb.SearchOptions) []vectordb.Record {
	filteredDocs := make([]vectordb.Record, 0, len(docs))
	filteredDocsLock := sync.Mutex{}

	// Use number of docs or CPUs, whichever is smaller.
	concurrency := min(runtime.NumCPU(), len(docs))

	docChan := make(chan vectordb.Record, concurrency*2)

	wg := sync.WaitGroup{}
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range docChan {
				if recordMatchesFilters(&doc, opts) {
					filteredDocsLock.Lock()
					filteredDocs = append(filteredDocs, doc)
					filteredDocsLock.Unlock()
				}
			}
		}()
	}

	for _, doc := range docs {
		docChan <- doc
	}
	close(docChan)

	wg.Wait()

	if len(filteredDocs) == 0 {
		return nil
	}
	return filteredDocs
}

// recordMatchesFilters checks if a record matches the given filters.
// Metadata must contain all the fields of the filter.
func recordMatchesFilters(record *vectordb.Record, opts *vectordb.SearchOptions) bool {
	for k, v := range opts.Meta {
		if record.Embedding.Meta[k] != v {
			return false
		}
	}
	if opts.Include != "" && !strings.Contains(record.Embedding.Object, opts.Include) {
		return false
	}
	if opts.Exclude != "" && strings.Contains(record.Embedding.Object, opts.Exclude) {
		return false
	}
	return true
}
