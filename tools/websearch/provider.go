package websearch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bububa/kichat/tools"
	"github.com/bububa/kichat/tools/duckduckgo"
	"github.com/bububa/kichat/tools/searxng"
	"github.com/bububa/kichat/tools/tavily"
	"github.com/bububa/kichat/tools/webscraper"
)

const (
	BasicDepth    = tavily.BasicDepth
	AdvancedDepth = tavily.AdvancedDepth
)

// Provider runs a single query against one search backend
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, depth string, maxResults int) (*QueryResult, error)
}

// Tavily is the preferred provider, it answers with page content and a summary
type Tavily struct {
	tool *tavily.Search
}

var _ Provider = (*Tavily)(nil)

func NewTavily(tool *tavily.Search) *Tavily {
	return &Tavily{tool: tool}
}

func (p *Tavily) Name() string {
	return "Tavily"
}

func (p *Tavily) Search(ctx context.Context, query string, depth string, maxResults int) (*QueryResult, error) {
	var out tavily.Output
	if err := tools.Invoke(ctx, p.tool, tavily.NewInput(query, depth, maxResults), &out); err != nil {
		return nil, err
	}
	ret := &QueryResult{
		Query:   query,
		Answer:  out.Answer,
		Depth:   out.Depth,
		Sources: make([]Source, 0, len(out.Results)),
	}
	for _, item := range out.Results {
		ret.Sources = append(ret.Sources, Source{
			Title:   item.Title,
			URL:     item.URL,
			Content: item.Content,
		})
	}
	return ret, nil
}

// SearxNG queries a self hosted SearxNG instance
type SearxNG struct {
	tool *searxng.SearxngSearch
}

var _ Provider = (*SearxNG)(nil)

func NewSearxNG(tool *searxng.SearxngSearch) *SearxNG {
	return &SearxNG{tool: tool}
}

func (p *SearxNG) Name() string {
	return "SearxNG"
}

func (p *SearxNG) Search(ctx context.Context, query string, _ string, maxResults int) (*QueryResult, error) {
	var out searxng.Output
	if err := tools.Invoke(ctx, p.tool, searxng.NewInput(searxng.GeneralCategory, []string{query}), &out); err != nil {
		return nil, err
	}
	items := out.Results
	if maxResults > 0 && len(items) > maxResults {
		items = items[:maxResults]
	}
	ret := &QueryResult{
		Query:   query,
		Depth:   BasicDepth,
		Sources: make([]Source, 0, len(items)),
	}
	for _, item := range items {
		ret.Sources = append(ret.Sources, Source{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Content,
		})
	}
	return ret, nil
}

// DuckDuckGo is the fallback provider. Result pages are fetched to replace the snippets.
type DuckDuckGo struct {
	tool    *duckduckgo.Search
	scraper *webscraper.Webscraper
}

var _ Provider = (*DuckDuckGo)(nil)

// NewDuckDuckGo returns the provider, a nil scraper keeps the snippets
func NewDuckDuckGo(tool *duckduckgo.Search, scraper *webscraper.Webscraper) *DuckDuckGo {
	return &DuckDuckGo{tool: tool, scraper: scraper}
}

func (p *DuckDuckGo) Name() string {
	return "DuckDuckGo"
}

func (p *DuckDuckGo) Search(ctx context.Context, query string, _ string, maxResults int) (*QueryResult, error) {
	var out duckduckgo.Output
	if err := tools.Invoke(ctx, p.tool, duckduckgo.NewInput(query, maxResults), &out); err != nil {
		return nil, err
	}
	ret := &QueryResult{
		Query:   query,
		Depth:   BasicDepth,
		Sources: make([]Source, len(out.Results)),
	}
	var wg sync.WaitGroup
	for i, item := range out.Results {
		ret.Sources[i] = Source{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Snippet,
		}
		if p.scraper == nil {
			continue
		}
		wg.Add(1)
		go func(src *Source) {
			defer wg.Done()
			text, err := p.scraper.Text(ctx, src.URL)
			if err != nil {
				log.Debug().Err(err).Str("url", src.URL).Msg("keep snippet")
				return
			}
			src.Content = text
		}(&ret.Sources[i])
	}
	wg.Wait()
	return ret, nil
}
