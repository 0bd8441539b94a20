// Package searchquery turns a free-form chat question into short web search queries.
//
// Location detection is a heuristic built on German capitalization: a run of
// capitalized words that are neither stopwords nor topic words is taken as a
// place name. It is not a named-entity recognizer.
package searchquery

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TopicName identifies a recognized query intent
type TopicName string

const (
	Weather TopicName = "weather"
	News    TopicName = "news"
	Price   TopicName = "price"
)

// Topic is a recognized query intent with its query prefix
type Topic struct {
	Name   TopicName
	Prefix string
	// triggers are matched as substrings of the lower-cased question
	triggers []string
	// excluded words never become part of a location phrase
	excluded set
}

func (t Topic) matches(lower string) bool {
	for _, w := range t.triggers {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// DetectTopic returns the first topic whose trigger words occur in question
func DetectTopic(question string) (Topic, bool) {
	lower := strings.ToLower(question)
	for _, t := range topics {
		if t.matches(lower) {
			return t, true
		}
	}
	return Topic{}, false
}

// Extract returns one or more search queries for question. It never returns an empty slice.
//
// With a topic and several location phrases every phrase gets its own query.
// With a topic and one location a single query is built, weather uses a template biased to live conditions.
// Otherwise the non-stopwords are joined into one query.
func Extract(question string) []string {
	topic, hasTopic := DetectTopic(question)
	words := normalize(question)
	locations := Locations(words, topic.excluded)

	if hasTopic {
		switch len(locations) {
		case 0:
		case 1:
			if topic.Name == Weather {
				return []string{"weather " + locations[0] + " current today"}
			}
			return []string{topic.Prefix + " " + locations[0]}
		default:
			ret := make([]string, 0, len(locations))
			for _, loc := range locations {
				ret = append(ret, topic.Prefix+" "+loc)
			}
			return ret
		}
	}

	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if w == "," || stopwords.has(strings.ToLower(w)) || utf8.RuneCountInString(w) <= 1 {
			continue
		}
		keywords = append(keywords, w)
	}
	if len(keywords) > 0 {
		return []string{strings.Join(keywords, " ")}
	}
	if fallback := strings.TrimSpace(strings.ReplaceAll(question, "?", "")); fallback != "" {
		return []string{fallback}
	}
	return []string{strings.TrimSpace(question)}
}

var punctuation = strings.NewReplacer(",", " , ", "?", "", "!", "", ".", "")

// normalize drops ? ! . and keeps commas as standalone words
func normalize(question string) []string {
	return strings.Fields(punctuation.Replace(question))
}

// Locations joins consecutive capitalized words into phrases. A comma or any other word ends a phrase.
// Stopwords and excluded words never qualify. Duplicates are dropped, first occurrence wins.
func Locations(words []string, excluded map[string]struct{}) []string {
	var (
		ret     []string
		seen    = make(map[string]struct{})
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		phrase := strings.Join(current, " ")
		current = current[:0]
		if strings.TrimSpace(phrase) == "" {
			return
		}
		if _, ok := seen[phrase]; ok {
			return
		}
		seen[phrase] = struct{}{}
		ret = append(ret, phrase)
	}
	for _, w := range words {
		if w == "," {
			flush()
			continue
		}
		lower := strings.ToLower(w)
		_, isExcluded := excluded[lower]
		if startsUpper(w) && !stopwords.has(lower) && !isExcluded {
			current = append(current, w)
			continue
		}
		flush()
	}
	flush()
	return ret
}

func startsUpper(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
