package domain

import (
	"fmt"
	"strings"
)

// Difficulty labels accepted on a question record. Stored lower-cased.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// DefaultCategory is assigned when a generated entry names no category.
const DefaultCategory = "General"

// IsValidDifficulty reports whether s matches a difficulty label,
// ignoring case.
func IsValidDifficulty(s string) bool {
	switch strings.ToLower(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionRecord is the validated output unit of the generation pipeline.
// Options holds exactly OptionCount texts and CorrectAnswer indexes into it.
// Records are immutable once returned by the validator.
type QuestionRecord struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
}

// Validate checks the record invariants.
func (q *QuestionRecord) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewInvalidInputError("question is required")
	}
	if len(q.Options) != OptionCount {
		return NewInvalidInputError(fmt.Sprintf("options must contain exactly %d entries", OptionCount))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return NewInvalidInputError(fmt.Sprintf("correctAnswer must be between 0 and %d", OptionCount-1))
	}
	if !IsValidDifficulty(q.Difficulty) {
		return NewInvalidInputError("difficulty must be easy, medium or hard")
	}
	return nil
}

// RepairWarning records one lenient-mode field repair on a generated entry.
type RepairWarning struct {
	Entry   int    `json:"entry"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w RepairWarning) String() string {
	return fmt.Sprintf("entry %d: %s: %s", w.Entry, w.Field, w.Message)
}

// ValidationMode controls whether soft field defects are repaired in place
// (with a warning) or cause the batch to fail.
type ValidationMode string

const (
	ModeLenient ValidationMode = "lenient"
	ModeStrict  ValidationMode = "strict"
)

// IsValidMode reports whether s names a validation mode.
func IsValidMode(s string) bool {
	switch ValidationMode(s) {
	case ModeLenient, ModeStrict:
		return true
	}
	return false
}
