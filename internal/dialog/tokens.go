package dialog

import "strings"

const (
	// Delimiter separates keypad entries in the accumulated text.
	Delimiter = "*"

	// PaginationMarker is injected by the gateway when it pages a long
	// screen. It can appear at any position and is never caller input.
	PaginationMarker = "98"
)

// Tokenize splits accumulated text into entries. Empty text has no entries.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, Delimiter)
}

// Sanitize drops every pagination marker, keeping the order of the rest.
func Sanitize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) == PaginationMarker {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Parse tokenizes and sanitizes accumulated text.
func Parse(text string) []string {
	return Sanitize(Tokenize(text))
}
