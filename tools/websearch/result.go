package websearch

import (
	"fmt"
	"strings"
)

// Source is a single web page of a search result
type Source struct {
	Title string
	URL   string
	// Content is the page text, empty when it was not fetched
	Content string
	Snippet string
}

// QueryResult holds the sources found for one query
type QueryResult struct {
	Query   string
	Answer  string
	Depth   string
	Sources []Source
}

// Info summarizes the last search
type Info struct {
	Method  string
	Sources int
	Depth   string
}

func (i Info) String() string {
	return fmt.Sprintf("🔍 Websuche via: %s | 📊 Quellen: %d | Suchtiefe: %s", i.Method, i.Sources, i.Depth)
}

// Result of a search over every query of a question
type Result struct {
	Method  string
	Queries []QueryResult
}

// Info returns method, number of sources and depth of the search
func (r *Result) Info() *Info {
	info := &Info{Method: r.Method}
	for _, q := range r.Queries {
		info.Sources += len(q.Sources)
		if info.Depth == "" {
			info.Depth = q.Depth
		}
	}
	return info
}

// Format renders the results as the context block handed to the model
func (r *Result) Format() string {
	blocks := make([]string, 0, len(r.Queries))
	for _, q := range r.Queries {
		blocks = append(blocks, q.Format())
	}
	return strings.Join(blocks, "\n")
}

func (q QueryResult) Format() string {
	lines := []string{
		"🔍 Suchergebnisse für: " + q.Query,
		fmt.Sprintf("📊 Quellen verwendet: %d | Suchtiefe: %s\n", len(q.Sources), q.Depth),
	}
	if q.Answer != "" {
		lines = append(lines, fmt.Sprintf("📝 Zusammenfassung: %s\n", q.Answer))
	}
	for i, s := range q.Sources {
		title := s.Title
		if title == "" {
			title = "Kein Titel"
		}
		lines = append(lines,
			fmt.Sprintf("━━━ Quelle %d: %s ━━━", i+1, title),
			"URL: "+s.URL,
		)
		switch {
		case s.Content != "":
			lines = append(lines, fmt.Sprintf("Inhalt:\n%s\n", s.Content))
		case s.Snippet != "":
			lines = append(lines, fmt.Sprintf("Zusammenfassung: %s\n", s.Snippet))
		default:
			lines = append(lines, "Zusammenfassung: Keine Beschreibung\n")
		}
	}
	return strings.Join(lines, "\n")
}
