package websearch

import (
	"github.com/bububa/kichat/tools"
	"github.com/bububa/kichat/tools/duckduckgo"
	"github.com/bububa/kichat/tools/searxng"
	"github.com/bububa/kichat/tools/tavily"
	"github.com/bububa/kichat/tools/webscraper"
)

// Default builds the provider chain: Tavily when tavilyKey is set, SearxNG when searxngURL
// is set and DuckDuckGo with page extraction as the last resort.
func Default(tavilyKey string, searxngURL string, maxResults int, toolOpts ...tools.Option) *Searcher {
	opts := []Option{WithMaxResults(maxResults)}
	if tavilyKey != "" {
		opts = append(opts, WithProvider(NewTavily(tavily.New(tavilyKey, tavily.WithToolOptions(toolOpts...)))))
	}
	if searxngURL != "" {
		opts = append(opts, WithProvider(NewSearxNG(searxng.New(
			searxng.WithBaseURL(searxngURL),
			searxng.WithLanguage("de"),
			searxng.WithToolOptions(toolOpts...),
		))))
	}
	scraper := webscraper.New(webscraper.WithToolOptions(toolOpts...))
	opts = append(opts, WithProvider(NewDuckDuckGo(duckduckgo.New(duckduckgo.WithToolOptions(toolOpts...)), scraper)))
	return New(opts...)
}
