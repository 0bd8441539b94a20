package vectordb

// DefaultTopK is the number of search results when neither engine nor query set one
const DefaultTopK = 5

type Options struct {
	EngineType EngineType // Database type ("chromem", "memory")
	TopK       int        // Maximum number of results to return
	MinScore   float64    // Minimum similarity score threshold
	Path       string     // Directory of a persistent database
	Compress   bool       // Gzip persisted documents
}

// Option is a function type for configuring Engine instances.
type Option func(*Options)

// WithEngine sets the database type.
// Supported types:
// - "chromem": persistent storage on the local filesystem
// - "memory": In-memory database for testing
func WithEngine(engine EngineType) Option {
	return func(c *Options) {
		c.EngineType = engine
	}
}

// WithTopK sets the maximum number of results to return.
// The actual number of results may be less if MinScore filtering is applied.
func WithTopK(k int) Option {
	return func(c *Options) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score threshold.
// Results with scores below this threshold will be filtered out.
func WithMinScore(score float64) Option {
	return func(c *Options) {
		c.MinScore = score
	}
}

// WithPath sets the directory the database persists to
func WithPath(path string) Option {
	return func(c *Options) {
		c.Path = path
	}
}

func WithCompress(compress bool) Option {
	return func(c *Options) {
		c.Compress = compress
	}
}

// ResolveTopK returns the first positive value of query, engine and DefaultTopK
func (o Options) ResolveTopK(query int) int {
	if query > 0 {
		return query
	}
	if o.TopK > 0 {
		return o.TopK
	}
	return DefaultTopK
}
