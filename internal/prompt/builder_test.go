package prompt_test

import (
	"strings"
	"testing"

	"quiz-forge/internal/prompt"

	"github.com/stretchr/testify/assert"
)

func TestBuild_DefaultTemplate(t *testing.T) {
	params := prompt.Params{
		Topic:          "Goroutines",
		Language:       "English",
		Position:       "senior backend engineer",
		DifficultyText: "medium",
		QuestionCount:  5,
	}

	got := prompt.Build("", params, []string{"What is a channel?"}, "")

	assert.Contains(t, got, `Create 5 unique`)
	assert.Contains(t, got, `"Goroutines"`)
	assert.Contains(t, got, "in English")
	assert.Contains(t, got, "target a senior backend engineer")
	assert.Contains(t, got, "Target difficulty: medium.")
	assert.Contains(t, got, "- What is a channel?")
	assert.Contains(t, got, `"correctAnswer": 2`, "schema example should be embedded")
	assert.NotContains(t, got, "{{", "all placeholders should be substituted")
}

func TestBuild_UnresolvedOptionalsRenderGenerically(t *testing.T) {
	got := prompt.Build("", prompt.Params{Topic: "SQL", QuestionCount: 3}, nil, "")

	assert.Contains(t, got, "in English", "missing language should default")
	assert.Contains(t, got, "general technical audience", "missing position should render generic phrasing")
	assert.Contains(t, got, "balanced mix", "missing difficulty should render generic phrasing")
	assert.Contains(t, got, "None.", "empty exclusion list should render a placeholder line")
}

func TestBuild_CustomTemplateAndSchema(t *testing.T) {
	tmpl := "Topic={{topic}} Count={{count}} Schema={{schema}} Excl={{exclusions}}"
	got := prompt.Build(tmpl, prompt.Params{Topic: "HTTP", QuestionCount: 2},
		[]string{"q1", "q2"}, `[{"question":"x"}]`)

	assert.Equal(t, `Topic=HTTP Count=2 Schema=[{"question":"x"}] Excl=- q1
- q2`, got)
}

func TestBuild_PositionInstructionPassedThrough(t *testing.T) {
	params := prompt.Params{
		Topic:               "Kubernetes",
		PositionInstruction: "Focus on operational scenarios rather than trivia.",
		QuestionCount:       4,
	}
	got := prompt.Build("", params, nil, "")
	assert.Contains(t, got, "Focus on operational scenarios rather than trivia.")
}

func TestFormatExclusionList(t *testing.T) {
	tests := []struct {
		name       string
		exclusions []string
		want       string
	}{
		{"empty", nil, "None."},
		{"single", []string{"What is DNS?"}, "- What is DNS?"},
		{"multiple", []string{"a", "b"}, "- a\n- b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prompt.FormatExclusionList(tt.exclusions))
		})
	}
}

func TestBuild_ZeroCountRendersAtLeastOne(t *testing.T) {
	got := prompt.Build("count: {{count}}", prompt.Params{Topic: "x"}, nil, "")
	assert.True(t, strings.Contains(got, "count: 1"))
}
