package document

import (
	"regexp"
	"strings"
)

var (
	// a syllable split over a line break: "Stimm-\nlippen"
	hyphenatedRegex = regexp.MustCompile(`([\p{L}\p{N}_]+)-\s*\n\s*([\p{L}\p{N}_]+)`)
	// everything but letters, digits, whitespace and plain punctuation, e.g. ■ or •
	artifactRegex   = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}.,;:!?()"'\-]`)
	whitespaceRegex = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Clean repairs typical PDF extraction damage: hyphenated line breaks are joined,
// line breaks inside paragraphs become spaces, layout glyphs are dropped and
// whitespace is collapsed into single spaces.
func Clean(text string) string {
	text = hyphenatedRegex.ReplaceAllString(text, "${1}${2}")
	text = joinLines(text)
	text = artifactRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// joinLines replaces every newline that is not part of a blank line with a space
func joinLines(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}
	b := []byte(text)
	for i, c := range b {
		if c != '\n' {
			continue
		}
		if (i > 0 && b[i-1] == '\n') || (i+1 < len(b) && b[i+1] == '\n') {
			continue
		}
		b[i] = ' '
	}
	return string(b)
}
