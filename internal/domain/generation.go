package domain

import (
	"context"
	"time"
)

// GenerationParams carries one generation request from the host application.
// Zero values mean "use the configured default".
type GenerationParams struct {
	Topic               string
	Language            string
	Position            string
	DifficultyText      string
	PositionInstruction string
	QuestionCount       int
	Mode                ValidationMode
	Save                bool

	Model           string
	Temperature     *float64
	MaxOutputTokens int
	MaxRetries      int
	RetryDelay      time.Duration
}

// GenerationOptions are the resolved per-call settings handed to a TextGenerator.
type GenerationOptions struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
	MaxRetries      int
	RetryDelay      time.Duration
}

// GenerationResult is the pipeline output returned to the host. SavedIDs is
// populated only when the caller asked for persistence.
type GenerationResult struct {
	Questions []QuestionRecord `json:"questions"`
	Warnings  []RepairWarning  `json:"warnings,omitempty"`
	SavedIDs  []string         `json:"savedIds,omitempty"`
}

// TextGenerator produces raw text for a prompt. Implementations own the
// network round trip, the per-attempt timeout and the retry/backoff loop.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// QuestionGenerationService runs the full generation pipeline: prompt
// construction, text generation, extraction, parsing, normalization and
// validation. RecentQuestions exposes previously persisted records.
type QuestionGenerationService interface {
	GenerateQuestions(ctx context.Context, params GenerationParams) (*GenerationResult, error)
	RecentQuestions(ctx context.Context, category string, limit int) ([]QuestionRecord, error)
}

// QuestionRepository is the persistence collaborator for generated questions.
// It also sources the exclusion list of already-known question texts.
type QuestionRepository interface {
	SaveQuestions(ctx context.Context, records []QuestionRecord) ([]string, error)
	GetQuestionTexts(ctx context.Context, category string) ([]string, error)
	GetRecentQuestions(ctx context.Context, category string, limit int) ([]QuestionRecord, error)
}
