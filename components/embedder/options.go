package embedder

// DefaultModel is the embedding model of the university API
const DefaultModel = "bge-m3"

// Options holds the configuration for creating an Embedder instance.
type Options struct {
	// model specifies the model to use
	model string
	// batchSize is the maximum number of parts per request, 0 sends everything at once
	batchSize int
}

// Option is a function type for configuring the embedder Options.
// It follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.batchSize = n
	}
}

func (i Options) Model() string {
	if i.model == "" {
		return DefaultModel
	}
	return i.model
}

func (i Options) BatchSize() int {
	return i.batchSize
}

// Batches splits parts into consecutive groups of at most size elements.
// A non positive size yields a single batch.
func Batches(parts []string, size int) [][]string {
	if size <= 0 || len(parts) <= size {
		return [][]string{parts}
	}
	ret := make([][]string, 0, (len(parts)+size-1)/size)
	for i := 0; i < len(parts); i += size {
		ret = append(ret, parts[i:min(i+size, len(parts))])
	}
	return ret
}
