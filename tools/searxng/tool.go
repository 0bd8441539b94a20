package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/bububa/kichat/tools"
)

type Category = string

const (
	EmptyCategory       Category = ""
	GeneralCategory     Category = "general"
	NewsCategory        Category = "news"
	SocialMediaCategory Category = "social_media"
)

// Input Schema for input to a tool for searching for information, news, references, and other content using SearxNG.
// Returns a list of search results with a short description or content snippet and URLs for further exploration
type Input struct {
	// Queries list of search queries.
	Queries []string `json:"queries" validate:"required,min=1,dive,required"`
	// Category: Category of the search queries.
	Category Category `json:"category,omitempty" validate:"omitempty,oneof=general news social_media"`
}

func NewInput(category Category, queries []string) *Input {
	return &Input{
		Queries:  queries,
		Category: category,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// SearchResultItem represents a single search result item
type SearchResultItem struct {
	// URL The URL of the search result
	URL string `json:"url"`
	// Title The title of the search result
	Title string `json:"title"`
	// Content The content snippet of the search result
	Content string `json:"content,omitempty"`
	// Query The query used to obtain this search result
	Query string `json:"query"`
	// Category of the search result
	Category Category `json:"category,omitempty"`
	// Metadata e.g. the date shown by the engine
	Metadata string `json:"metadata,omitempty"`
	// PublishedDate of news results
	PublishedDate string  `json:"publishedDate,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// SearchResponse represents the entire response from the local search engine
type SearchResponse struct {
	Query           string             `json:"query"`
	NumberOfResults int                `json:"number_of_results"`
	Results         []SearchResultItem `json:"results"`
}

// Output represents the output of the SearxNG search tool.
type Output struct {
	// Results List of search result items
	Results []SearchResultItem `json:"results,omitempty"`
	// Category The category of the search results
	Category Category `json:"category,omitempty"`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

type Config struct {
	tools.Config
	language   string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// SearxngSearch is a tool for performing searches on SearxNG based on the provided queries and category.
type SearxngSearch struct {
	Config
}

var _ tools.Tool[Input, Output] = (*SearxngSearch)(nil)

func New(opts ...Option) *SearxngSearch {
	ret := new(SearxngSearch)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("SearxngSearch")
	}
	if ret.maxResults == 0 {
		ret.maxResults = 10
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	return ret
}

// Run Runs the SearxNGTool synchronously with the given parameters.
// Results without title, url or content are dropped, duplicated urls are merged,
// the rest is ordered by score and cut to maxResults.
func (t *SearxngSearch) Run(ctx context.Context, input *Input, output *Output) error {
	var all []SearchResultItem
	for _, query := range input.Queries {
		items, err := t.fetchSearchResults(ctx, query, input.Category)
		if err != nil {
			return err
		}
		all = append(all, items...)
	}
	seen := make(map[string]struct{}, len(all))
	filtered := make([]SearchResultItem, 0, len(all))
	for _, item := range all {
		if item.Title == "" || item.URL == "" || item.Content == "" {
			continue
		}
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		filtered = append(filtered, item)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	if len(filtered) > t.maxResults {
		filtered = filtered[:t.maxResults]
	}
	output.Results = filtered
	output.Category = input.Category
	return nil
}

// fetchSearchResults queries the local search engine and returns the parsed search response
func (t *SearxngSearch) fetchSearchResults(ctx context.Context, query string, category Category) ([]SearchResultItem, error) {
	// Encode the query parameter
	values := url.Values{}
	values.Set("q", query)
	values.Set("safesearch", "0")
	values.Set("format", "json")
	if t.language != "" {
		values.Set("language", t.language)
	}
	if category != "" {
		values.Set("categories", category)
	}
	searchURL := fmt.Sprintf("%s/search?%s", t.baseURL, values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying local search engine: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from search engine: %d", httpResp.StatusCode)
	}

	var searchResponse SearchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&searchResponse); err != nil {
		return nil, err
	}
	for idx := range searchResponse.Results {
		searchResponse.Results[idx].Query = query
	}

	return searchResponse.Results, nil
}
