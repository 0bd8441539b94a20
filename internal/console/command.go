package console

import (
	"strings"
	"unicode"
)

// ParseCommand splits a /command line into the lower-cased command and its argument.
// ok is false for lines not starting with a slash.
func ParseCommand(input string) (cmd string, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	rest := strings.TrimSpace(input[1:])
	if idx := strings.IndexFunc(rest, unicode.IsSpace); idx >= 0 {
		cmd, arg = rest[:idx], strings.TrimSpace(rest[idx:])
	} else {
		cmd = rest
	}
	return strings.ToLower(cmd), arg, true
}
