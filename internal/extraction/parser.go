package extraction

import (
	"encoding/json"

	"quiz-forge/internal/domain"
)

const previewLength = 120

// Parse turns a candidate substring into an untyped tree of maps, lists and
// scalars. The candidate is parsed directly first; on failure a
// bracket-matching recovery scan runs over the ORIGINAL raw text and the
// recovered span is parsed as a second attempt. When both attempts fail the
// returned error carries the first attempt's message, so diagnostics stay
// stable for callers regardless of what the recovery scan found.
func Parse(candidate, rawText string) (interface{}, error) {
	var tree interface{}
	firstErr := json.Unmarshal([]byte(candidate), &tree)
	if firstErr == nil {
		return tree, nil
	}

	if span, ok := RecoverBracketSpan(rawText); ok {
		var recovered interface{}
		if err := json.Unmarshal([]byte(span), &recovered); err == nil {
			return recovered, nil
		}
	}

	return nil, domain.NewParseError(firstErr, Preview(candidate))
}

// RecoverBracketSpan locates the first complete balanced [...] or {...} span
// in text. Quoted spans are opaque: a toggled in-quote flag with
// backslash-escape lookahead keeps escaped quotes from toggling the flag.
// The first opening bracket at depth 0 marks the start; depth returning to 0
// marks the end, inclusive.
func RecoverBracketSpan(text string) (string, bool) {
	inQuote := false
	depth := 0
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inQuote:
			if c == '\\' {
				i++ // skip the escaped character
			} else if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '[' || c == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case c == ']' || c == '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// Preview returns the leading slice of s used in error diagnostics.
func Preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	return s[:previewLength] + "..."
}
