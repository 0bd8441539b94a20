package openai

import (
	"context"
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/embedder"
)

// Embedder requests embeddings from an OpenAI compatible /embeddings endpoint
type Embedder struct {
	*openai.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func (p *Embedder) SetClient(clt *openai.Client) {
	p.Client = clt
}

func New(client *openai.Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	for _, opt := range opts {
		opt(&i.Options)
	}
	return i
}

func (p *Embedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, usage *components.Usage) error {
	ret, err := p.request(ctx, []string{text}, usage)
	if err != nil {
		return err
	}
	if len(ret) == 0 {
		return fmt.Errorf("%w: empty response", embedder.ErrEmbeddingMismatch)
	}
	*embedding = ret[0]
	return nil
}

// BatchEmbed embeds parts, split into requests of at most BatchSize parts
func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, 0, len(parts))
	offset := 0
	for _, batch := range embedder.Batches(parts, p.BatchSize()) {
		embeddings, err := p.request(ctx, batch, usage)
		if err != nil {
			return ret, err
		}
		if len(embeddings) != len(batch) {
			return ret, fmt.Errorf("%w: want %d, got %d", embedder.ErrEmbeddingMismatch, len(batch), len(embeddings))
		}
		for _, e := range embeddings {
			e.Index += offset
			ret = append(ret, e)
		}
		offset += len(batch)
	}
	return ret, nil
}

func (p *Embedder) request(ctx context.Context, parts []string, usage *components.Usage) ([]embedder.Embedding, error) {
	req := openai.EmbeddingRequest{
		Input: parts,
		Model: openai.EmbeddingModel(p.Model()),
	}
	resp, err := p.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		usage.Merge(&components.Usage{InputTokens: int64(resp.Usage.PromptTokens)})
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Index < data[j].Index
	})
	ret := make([]embedder.Embedding, 0, len(data))
	for _, v := range data {
		if v.Index < 0 || v.Index >= len(parts) {
			return nil, fmt.Errorf("%w: index %d out of range", embedder.ErrEmbeddingMismatch, v.Index)
		}
		embeddings := make([]float64, 0, len(v.Embedding))
		for _, e := range v.Embedding {
			embeddings = append(embeddings, float64(e))
		}
		ret = append(ret, embedder.Embedding{
			Object:    parts[v.Index],
			Embedding: embeddings,
			Index:     v.Index,
		})
	}
	return ret, nil
}
