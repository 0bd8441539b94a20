// Package tavily queries the Tavily search API
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bububa/kichat/tools"
)

const DefaultBaseURL = "https://api.tavily.com/search"

type Depth = string

const (
	BasicDepth    Depth = "basic"
	AdvancedDepth Depth = "advanced"
)

// Input of a Tavily search
type Input struct {
	// Query the search query
	Query string `json:"query" validate:"required"`
	// Depth basic or advanced, advanced is slower and reads more of every page
	Depth Depth `json:"search_depth,omitempty" validate:"omitempty,oneof=basic advanced"`
	// MaxResults number of results, Tavily allows up to 20
	MaxResults int `json:"max_results,omitempty" validate:"gte=0,lte=20"`
}

func NewInput(query string, depth Depth, maxResults int) *Input {
	if depth == "" {
		depth = BasicDepth
	}
	return &Input{
		Query:      query,
		Depth:      depth,
		MaxResults: maxResults,
	}
}

// Item is a single search result
type Item struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Output of a Tavily search
type Output struct {
	Query   string `json:"query"`
	Answer  string `json:"answer,omitempty"`
	Results []Item `json:"results"`
	Depth   Depth  `json:"-"`
}

type request struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type errorResponse struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

type Config struct {
	tools.Config
	apiKey        string
	baseURL       string
	includeAnswer bool
	httpClient    *http.Client
}

// Search is a tool for searching the web through Tavily
type Search struct {
	Config
}

var _ tools.Tool[Input, Output] = (*Search)(nil)

func New(apiKey string, opts ...Option) *Search {
	ret := new(Search)
	ret.apiKey = apiKey
	ret.includeAnswer = true
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("TavilySearch")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Run sends one search request
func (t *Search) Run(ctx context.Context, input *Input, output *Output) error {
	payload := request{
		Query:         input.Query,
		SearchDepth:   input.Depth,
		MaxResults:    input.MaxResults,
		IncludeAnswer: t.includeAnswer,
	}
	if payload.SearchDepth == "" {
		payload.SearchDepth = BasicDepth
	}
	if payload.MaxResults == 0 {
		payload.MaxResults = 5
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error querying tavily: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		var errResp errorResponse
		bs, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		if json.Unmarshal(bs, &errResp) == nil && errResp.Detail.Error != "" {
			return fmt.Errorf("non-200 response from tavily: %d %s", httpResp.StatusCode, errResp.Detail.Error)
		}
		return fmt.Errorf("non-200 response from tavily: %d", httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(output); err != nil {
		return err
	}
	if output.Query == "" {
		output.Query = input.Query
	}
	output.Depth = payload.SearchDepth
	return nil
}
