// Package duckduckgo scrapes the html endpoint of DuckDuckGo, it needs no API key
package duckduckgo

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/kichat/components/document"
	"github.com/bububa/kichat/tools"
)

const (
	DefaultBaseURL   = "https://html.duckduckgo.com/html/"
	DefaultRegion    = "de-de"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Input of a DuckDuckGo search
type Input struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"max_results,omitempty" validate:"gte=0"`
}

func NewInput(query string, maxResults int) *Input {
	return &Input{
		Query:      query,
		MaxResults: maxResults,
	}
}

// Item is a single organic search result
type Item struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

type Output struct {
	Query   string `json:"query"`
	Results []Item `json:"results"`
}

type Config struct {
	tools.Config
	baseURL    string
	region     string
	userAgent  string
	httpClient *http.Client
}

// Search is a tool for searching DuckDuckGo
type Search struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Search)(nil)

func New(opts ...Option) *Search {
	ret := new(Search)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("DuckDuckGoSearch")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.region == "" {
		ret.region = DefaultRegion
	}
	if ret.userAgent == "" {
		ret.userAgent = DefaultUserAgent
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

func (t *Search) Run(ctx context.Context, input *Input, output *Output) error {
	values := url.Values{}
	values.Set("q", input.Query)
	values.Set("kl", t.region)
	src, err := document.NewHttp(
		document.WithHttpURL(t.baseURL+"?"+values.Encode()),
		document.WithHttpClient(t.httpClient),
		document.WithHttpHeader("User-Agent", t.userAgent),
	)
	if err != nil {
		return err
	}
	if err := src.ReadAll(ctx); err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(src.Reader())
	if err != nil {
		return err
	}
	output.Query = input.Query
	output.Results = parseResults(doc, input.MaxResults)
	return nil
}

// parseResults reads the organic results, ads are skipped. limit <= 0 keeps all.
func parseResults(doc *goquery.Document, limit int) []Item {
	var ret []Item
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		a := s.Find("a.result__a").First()
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		link := resolveLink(href)
		if link == "" {
			return true
		}
		ret = append(ret, Item{
			Title:   strings.TrimSpace(a.Text()),
			URL:     link,
			Snippet: strings.Join(strings.Fields(s.Find(".result__snippet").First().Text()), " "),
		})
		return limit <= 0 || len(ret) < limit
	})
	return ret
}

// resolveLink unwraps the redirect links of the html endpoint
// //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=... into https://example.com
func resolveLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" && strings.HasSuffix(u.Host, "duckduckgo.com") {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
