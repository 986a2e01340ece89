package extraction_test

import (
	"testing"

	"quiz-forge/internal/extraction"

	"github.com/stretchr/testify/assert"
)

func TestExtract_NoFencesReturnsUnchanged(t *testing.T) {
	raw := `[{"question":"Q1"}]`
	assert.Equal(t, raw, extraction.Extract(raw))
}

func TestExtract_LabeledFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"json label",
			"Here you go:\n```json\n[{\"question\":\"Q1\"}]\n```\nEnjoy!",
			`[{"question":"Q1"}]`,
		},
		{
			"uppercase label",
			"```JSON\n{\"questions\":[]}\n```",
			`{"questions":[]}`,
		},
		{
			"json block preferred over earlier unlabeled block",
			"```\nnot the data\n```\n```json\n[1,2]\n```",
			"[1,2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extraction.Extract(tt.raw))
		})
	}
}

func TestExtract_AnyFence(t *testing.T) {
	raw := "Sure:\n```javascript\n[{\"question\":\"Q1\"}]\n```"
	// No structured-data label matches, so the first fenced block of any
	// kind wins; its label line is part of the interior here.
	got := extraction.Extract(raw)
	assert.Contains(t, got, `[{"question":"Q1"}]`)
}

func TestExtract_FencedInteriorIsTrimmed(t *testing.T) {
	raw := "prose before\n```json\n\n  [1]  \n\n```\nprose after"
	assert.Equal(t, "[1]", extraction.Extract(raw))
}

func TestExtract_UnclosedFenceFallsThrough(t *testing.T) {
	raw := "```json\n[1,2,3]"
	// No closing fence: strategies 2-4 cannot apply, the raw text comes
	// back unchanged (trimmed) and downstream recovery must cope.
	assert.Equal(t, raw, extraction.Extract(raw))
}

func TestExtractArrayLike(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"already an array", `[{"question":"Q"}]`, `[{"question":"Q"}]`},
		{"object left alone for the normalizer", `{"questions":[]}`, `{"questions":[]}`},
		{"leading prose trimmed", `Here are the questions: [1,2,3]`, `[1,2,3]`},
		{"trailing prose trimmed", `intro [1,2] hope this helps`, `[1,2]`},
		{"no brackets at all", `nothing here`, `nothing here`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extraction.ExtractArrayLike(tt.candidate))
		})
	}
}
