package security

import (
	"strings"
	"unicode"
)

const (
	// MaxSearchTermLength caps the search box input, counted in runes.
	MaxSearchTermLength = 100
)

// NormalizeSearchTerm prepares a raw search box value for matching.
// Control characters are dropped, surrounding whitespace is trimmed and the
// result is cut to MaxSearchTermLength runes. Any other character is kept:
// the term is only ever used for in-memory substring matching and is
// escaped by html/template on output.
func NormalizeSearchTerm(term string) string {
	if term == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, term)
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > MaxSearchTermLength {
		cleaned = strings.TrimSpace(string(runes[:MaxSearchTermLength]))
	}

	return cleaned
}

// IsSafeRedirect reports whether target is a local absolute path, so it can be
// used as a post-action redirect without turning the console into an open redirect.
func IsSafeRedirect(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	return !strings.ContainsAny(target, "\r\n")
}
