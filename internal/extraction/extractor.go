package extraction

import "strings"

const fence = "```"

// Fence labels recognized as marking structured data, in priority order.
var fenceLabels = []string{"json", "JSON"}

// Extract isolates the substring of raw generated text that is believed to
// contain structured data. Strategies are tried in order and the first one
// that applies wins:
//  1. text without fence markers is returned unchanged
//  2. the interior of a fenced block labeled as structured data
//  3. the interior of the first fenced block of any kind
//  4. the middle segment of a fence-delimiter split, minus a leading label line
//  5. the raw text unchanged
//
// Downstream stages must still cope with the result being arbitrary prose.
func Extract(rawText string) string {
	trimmed := strings.TrimSpace(rawText)
	if !strings.Contains(trimmed, fence) {
		return trimmed
	}
	if s, ok := extractLabeledFence(trimmed); ok {
		return s
	}
	if s, ok := extractAnyFence(trimmed); ok {
		return s
	}
	if s, ok := extractMiddleSegment(trimmed); ok {
		return s
	}
	return trimmed
}

// extractLabeledFence returns the interior of the first fenced block carrying
// a recognized structured-data label.
func extractLabeledFence(s string) (string, bool) {
	for _, label := range fenceLabels {
		marker := fence + label
		start := strings.Index(s, marker)
		if start < 0 {
			continue
		}
		inner := s[start+len(marker):]
		end := strings.Index(inner, fence)
		if end < 0 {
			continue
		}
		return strings.TrimSpace(inner[:end]), true
	}
	return "", false
}

// extractAnyFence returns the interior of the first fenced block regardless
// of its label.
func extractAnyFence(s string) (string, bool) {
	start := strings.Index(s, fence)
	if start < 0 {
		return "", false
	}
	inner := s[start+len(fence):]
	end := strings.Index(inner, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(inner[:end]), true
}

// extractMiddleSegment splits on the fence delimiter and takes the middle
// segment, dropping a leading language-label line if one is present.
func extractMiddleSegment(s string) (string, bool) {
	parts := strings.Split(s, fence)
	if len(parts) < 3 {
		return "", false
	}
	middle := parts[1]
	if nl := strings.Index(middle, "\n"); nl >= 0 {
		firstLine := strings.TrimSpace(middle[:nl])
		if firstLine != "" && len(strings.Fields(firstLine)) == 1 && !strings.ContainsAny(firstLine, "[{\"") {
			middle = middle[nl+1:]
		}
	}
	return strings.TrimSpace(middle), true
}

// ExtractArrayLike trims prose preceding the first list-open marker and
// following the last list-close marker. Candidates that already start with a
// list marker are returned as-is, and so are candidates starting with an
// object marker: the object may wrap the list and is the shape normalizer's
// job to unwrap.
func ExtractArrayLike(candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
