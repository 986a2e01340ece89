package prompt

import (
	"fmt"
	"strings"
)

// DefaultTemplate is used when the caller supplies no template. Placeholders
// are substituted by Build; unknown placeholders are left untouched.
const DefaultTemplate = `You are an expert quiz generator. Create {{count}} unique and high-quality multiple-choice questions about "{{topic}}" in {{language}}.

{{position_line}}
{{position_instruction}}
Target difficulty: {{difficulty}}.

Do NOT repeat or closely paraphrase any of these existing questions:
{{exclusions}}

For each question, provide the following fields:
1.  "question": The question text.
2.  "options": An array of exactly 4 answer option texts.
3.  "correctAnswer": The 0-based index of the correct option (an integer from 0 to 3).
4.  "explanation": A concise explanation of why the correct option is right.
5.  "difficulty": One of "easy", "medium" or "hard".
6.  "category": A short category label for the question.

Ensure your entire response is a single JSON array of question objects, with no surrounding prose.
Example:
{{schema}}`

// DefaultSchemaExample is the output-schema example substituted for {{schema}}
// when the caller supplies none.
const DefaultSchemaExample = `[
  {
    "question": "What is the capital of France?",
    "options": ["Berlin", "Madrid", "Paris", "Rome"],
    "correctAnswer": 2,
    "explanation": "Paris is the capital and largest city of France.",
    "difficulty": "easy",
    "category": "Geography"
  }
]`

// Params are the named values substituted into the template.
type Params struct {
	Topic               string
	Language            string
	Position            string
	DifficultyText      string
	PositionInstruction string
	QuestionCount       int
}

// Build renders the generation prompt. It is a pure function: a missing
// template falls back to DefaultTemplate and unresolved optional parameters
// render as generic phrasing rather than failing. The exclusion list is
// rendered as a bulleted list; it biases the generator away from duplicates
// but nothing downstream enforces it.
func Build(template string, params Params, exclusions []string, schemaExample string) string {
	if template == "" {
		template = DefaultTemplate
	}
	if schemaExample == "" {
		schemaExample = DefaultSchemaExample
	}

	language := params.Language
	if language == "" {
		language = "English"
	}

	difficulty := params.DifficultyText
	if difficulty == "" {
		difficulty = "a balanced mix of easy, medium and hard"
	}

	positionLine := "The questions target a general technical audience."
	if params.Position != "" {
		positionLine = fmt.Sprintf("The questions target a %s.", params.Position)
	}

	count := params.QuestionCount
	if count <= 0 {
		count = 1
	}

	r := strings.NewReplacer(
		"{{topic}}", params.Topic,
		"{{language}}", language,
		"{{difficulty}}", difficulty,
		"{{position_line}}", positionLine,
		"{{position_instruction}}", params.PositionInstruction,
		"{{exclusions}}", FormatExclusionList(exclusions),
		"{{schema}}", schemaExample,
		"{{count}}", fmt.Sprintf("%d", count),
	)
	return r.Replace(template)
}

// FormatExclusionList renders existing question texts as a bulleted list.
func FormatExclusionList(exclusions []string) string {
	if len(exclusions) == 0 {
		return "None."
	}
	var b strings.Builder
	for _, q := range exclusions {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
