package dto

import "quiz-forge/internal/domain"

// GenerateQuestionsRequest is the inbound parameter object for a generation
// run. Zero values fall back to the configured defaults.
// @Description Request body for generating quiz questions
type GenerateQuestionsRequest struct {
	Topic               string   `json:"topic"`
	Language            string   `json:"language,omitempty"`
	Position            string   `json:"position,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	PositionInstruction string   `json:"positionInstruction,omitempty"`
	Count               int      `json:"count,omitempty"`
	Mode                string   `json:"mode,omitempty" enums:"lenient,strict"`
	Save                bool     `json:"save,omitempty"`
	Model               string   `json:"model,omitempty"`
	Temperature         *float64 `json:"temperature,omitempty"`
	MaxOutputTokens     int      `json:"maxOutputTokens,omitempty"`
	MaxRetries          int      `json:"maxRetries,omitempty"`
	RetryDelayMs        int      `json:"retryDelayMs,omitempty"`
}

// QuestionResponse represents one validated question record in the API response
// @Description A validated quiz question
type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
}

// GenerateQuestionsResponse is the generation pipeline output returned to the caller
// @Description Generated questions plus any lenient-mode repair warnings
type GenerateQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Warnings  []string           `json:"warnings,omitempty"`
	SavedIDs  []string           `json:"savedIds,omitempty"`
}

// QuestionListResponse wraps stored question records
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromQuestionRecord converts a domain record to its response shape.
func FromQuestionRecord(rec domain.QuestionRecord) QuestionResponse {
	return QuestionResponse{
		Question:      rec.Question,
		Options:       rec.Options,
		CorrectAnswer: rec.CorrectAnswer,
		Explanation:   rec.Explanation,
		Difficulty:    rec.Difficulty,
		Category:      rec.Category,
	}
}

// FromGenerationResult converts the domain result to its response shape.
func FromGenerationResult(result *domain.GenerationResult) *GenerateQuestionsResponse {
	resp := &GenerateQuestionsResponse{
		Questions: make([]QuestionResponse, 0, len(result.Questions)),
		SavedIDs:  result.SavedIDs,
	}
	for _, rec := range result.Questions {
		resp.Questions = append(resp.Questions, FromQuestionRecord(rec))
	}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}
	return resp
}
