package domain

import (
	"testing"
)

func TestIsValidDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"easy", true},
		{"medium", true},
		{"hard", true},
		{"EASY", true},
		{"Medium", true},
		{"HaRd", true},
		{"", false},
		{"extreme", false},
		{"easy ", false},
	}

	for _, tt := range tests {
		if got := IsValidDifficulty(tt.input); got != tt.want {
			t.Errorf("IsValidDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestQuestionRecord_Validate(t *testing.T) {
	valid := func() QuestionRecord {
		return QuestionRecord{
			Question:      "What does TCP stand for?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Explanation:   "Transmission Control Protocol.",
			Difficulty:    DifficultyEasy,
			Category:      "Networking",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*QuestionRecord)
		wantErr bool
	}{
		{"valid record", func(q *QuestionRecord) {}, false},
		{"empty question", func(q *QuestionRecord) { q.Question = "  " }, true},
		{"three options", func(q *QuestionRecord) { q.Options = q.Options[:3] }, true},
		{"five options", func(q *QuestionRecord) { q.Options = append(q.Options, "e") }, true},
		{"answer below range", func(q *QuestionRecord) { q.CorrectAnswer = -1 }, true},
		{"answer above range", func(q *QuestionRecord) { q.CorrectAnswer = 4 }, true},
		{"unknown difficulty", func(q *QuestionRecord) { q.Difficulty = "impossible" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid()
			tt.mutate(&q)
			err := q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := NewInvalidInputError("bad input")
	err := NewGenerationFailedError("gemini-2.0-flash", 8192, 3, cause)

	if err.Code != CodeGenerationFailed {
		t.Errorf("Code = %s, want %s", err.Code, CodeGenerationFailed)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the last underlying cause")
	}
	if err.Context["model"] != "gemini-2.0-flash" {
		t.Errorf("Context[model] = %v, want gemini-2.0-flash", err.Context["model"])
	}
	if err.Context["maxOutputTokens"] != 8192 {
		t.Errorf("Context[maxOutputTokens] = %v, want 8192", err.Context["maxOutputTokens"])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		NewMissingFieldError("topic"),
		NewOutOfRangeError("count", 99, 1, 20),
	}
	msg := errs.Error()
	if msg != "topic: is required; count: must be between 1 and 20" {
		t.Errorf("unexpected message: %s", msg)
	}
}
