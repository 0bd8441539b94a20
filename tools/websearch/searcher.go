// Package websearch turns a chat question into web search context.
// Queries come from searchquery.Extract, providers are tried in order until one finds something.
package websearch

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bububa/kichat/components/searchquery"
)

// ErrNoResults is returned when no provider found anything for any query
var ErrNoResults = errors.New("websearch: no results")

const (
	DefaultMaxResults  = 5
	ResearchMaxResults = 8
)

var researchKeywords = []string{
	"vergleich", "compare", "analyse", "forschung",
	"research", "studie", "paper", "unterschied", "entwicklung",
}

// Depth returns the search depth and result count for question.
// Research questions search advanced with at least ResearchMaxResults results.
func Depth(question string, maxResults int) (string, int) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	lower := strings.ToLower(question)
	for _, kw := range researchKeywords {
		if strings.Contains(lower, kw) {
			return AdvancedDepth, max(maxResults, ResearchMaxResults)
		}
	}
	return BasicDepth, maxResults
}

type Searcher struct {
	providers  []Provider
	maxResults int
}

type Option func(*Searcher)

func WithProvider(p Provider) Option {
	return func(s *Searcher) {
		s.providers = append(s.providers, p)
	}
}

func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		s.maxResults = n
	}
}

func New(opts ...Option) *Searcher {
	ret := new(Searcher)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.maxResults <= 0 {
		ret.maxResults = DefaultMaxResults
	}
	return ret
}

// Providers returns the provider names in the order they are tried
func (s *Searcher) Providers() []string {
	ret := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		ret = append(ret, p.Name())
	}
	return ret
}

// Search runs one search per extracted query with the first provider that returns anything
func (s *Searcher) Search(ctx context.Context, question string) (*Result, error) {
	depth, n := Depth(question, s.maxResults)
	var queries []string
	for _, q := range searchquery.Extract(question) {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, ErrNoResults
	}
	for _, p := range s.providers {
		var results []QueryResult
		for _, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := p.Search(ctx, q, depth, n)
			if err != nil {
				log.Warn().Err(err).Str("provider", p.Name()).Str("query", q).Msg("search failed")
				continue
			}
			if len(res.Sources) == 0 && res.Answer == "" {
				continue
			}
			results = append(results, *res)
		}
		if len(results) > 0 {
			log.Debug().Str("provider", p.Name()).Strs("queries", queries).Msg("search done")
			return &Result{Method: p.Name(), Queries: results}, nil
		}
	}
	return nil, ErrNoResults
}
