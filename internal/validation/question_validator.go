package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"quiz-forge/internal/domain"
)

// ValidateEntries checks every entry of a normalized list against the
// question schema. Field rules are either hard-required (fail in any mode
// when the field is fundamentally absent) or soft (lenient mode repairs in
// place and records a warning, strict mode fails).
//
// In lenient mode the full repaired list is returned together with every
// warning raised; in strict mode the first violation aborts the whole batch
// naming the entry index and field.
func ValidateEntries(entries []interface{}, mode domain.ValidationMode) ([]domain.QuestionRecord, []domain.RepairWarning, error) {
	records := make([]domain.QuestionRecord, 0, len(entries))
	var warnings []domain.RepairWarning

	warn := func(i int, field, message string) {
		warnings = append(warnings, domain.RepairWarning{Entry: i, Field: field, Message: message})
	}

	for i, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, nil, domain.NewQuestionValidationError(i, "entry", "is not an object")
		}

		var rec domain.QuestionRecord

		// question: hard-required non-empty text in every mode.
		question, _ := entry["question"].(string)
		if strings.TrimSpace(question) == "" {
			return nil, nil, domain.NewQuestionValidationError(i, "question", "is required")
		}
		rec.Question = question

		// options: the list itself is hard-required; the exactly-4 rule
		// is soft.
		rawOptions, ok := entry["options"].([]interface{})
		if !ok {
			return nil, nil, domain.NewQuestionValidationError(i, "options", "is required and must be a list")
		}
		options := make([]string, 0, len(rawOptions))
		for _, o := range rawOptions {
			options = append(options, asText(o))
		}
		if len(options) != domain.OptionCount {
			if mode == domain.ModeStrict {
				return nil, nil, domain.NewQuestionValidationError(i, "options",
					fmt.Sprintf("must contain exactly %d entries, got %d", domain.OptionCount, len(options)))
			}
			original := len(options)
			for len(options) < domain.OptionCount {
				options = append(options, fmt.Sprintf("Option %d", len(options)+1))
			}
			options = options[:domain.OptionCount]
			warn(i, "options", fmt.Sprintf("adjusted from %d to %d entries", original, domain.OptionCount))
		}
		rec.Options = options

		// correctAnswer: soft integer-in-range rule. Numeric-looking text
		// coerces silently; anything else defaults to 0 with a warning in
		// lenient mode and fails in strict mode.
		answer, ok := asAnswerIndex(entry["correctAnswer"])
		if !ok || answer < 0 || answer >= domain.OptionCount {
			if mode == domain.ModeStrict {
				return nil, nil, domain.NewQuestionValidationError(i, "correctAnswer",
					fmt.Sprintf("must be an integer between 0 and %d, got %v", domain.OptionCount-1, entry["correctAnswer"]))
			}
			warn(i, "correctAnswer", fmt.Sprintf("invalid value %v, defaulted to 0", entry["correctAnswer"]))
			answer = 0
		}
		rec.CorrectAnswer = answer

		// explanation: soft; lenient mode synthesizes one.
		explanation, _ := entry["explanation"].(string)
		if strings.TrimSpace(explanation) == "" {
			if mode == domain.ModeStrict {
				return nil, nil, domain.NewQuestionValidationError(i, "explanation", "is required")
			}
			explanation = fmt.Sprintf("The correct answer is option %d.", rec.CorrectAnswer+1)
			warn(i, "explanation", "missing, synthesized a default")
		}
		rec.Explanation = explanation

		// difficulty: soft case-insensitive match; normalization to lower
		// case is silent, defaulting is not.
		difficulty, _ := entry["difficulty"].(string)
		if domain.IsValidDifficulty(difficulty) {
			rec.Difficulty = strings.ToLower(difficulty)
		} else {
			if mode == domain.ModeStrict {
				return nil, nil, domain.NewQuestionValidationError(i, "difficulty",
					fmt.Sprintf("must be easy, medium or hard, got %q", difficulty))
			}
			warn(i, "difficulty", fmt.Sprintf("invalid value %q, defaulted to %s", difficulty, domain.DifficultyMedium))
			rec.Difficulty = domain.DifficultyMedium
		}

		// category: soft; lenient mode assigns the default label.
		category, _ := entry["category"].(string)
		if strings.TrimSpace(category) == "" {
			if mode == domain.ModeStrict {
				return nil, nil, domain.NewQuestionValidationError(i, "category", "is required")
			}
			category = domain.DefaultCategory
			warn(i, "category", fmt.Sprintf("missing, defaulted to %q", domain.DefaultCategory))
		}
		rec.Category = category

		records = append(records, rec)
	}

	return records, warnings, nil
}

// asAnswerIndex converts a decoded JSON value to an answer index. JSON
// numbers arrive as float64 and must be integral; numeric-looking text is
// coerced.
func asAnswerIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// asText renders an option value as text. Generators occasionally emit bare
// numbers or booleans where option texts are expected.
func asText(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
