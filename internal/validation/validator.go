package validation

import (
	"strings"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
)

const (
	maxTopicLength    = 200
	maxQuestionCount  = 50
	maxRetriesAllowed = 10
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest validates the inbound question generation request.
// It only checks the host-facing parameter object; validation of the
// generated entries themselves is ValidateEntries' job.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuestionsRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Topic) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if len(req.Topic) > maxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", len(req.Topic), 1, maxTopicLength))
	}

	if req.Count < 0 || req.Count > maxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("count", req.Count, 1, maxQuestionCount))
	}

	if req.Mode != "" && !domain.IsValidMode(req.Mode) {
		errors = append(errors, domain.NewInvalidFormatError("mode", req.Mode))
	}

	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		errors = append(errors, domain.NewOutOfRangeError("temperature", *req.Temperature, 0, 2))
	}

	if req.MaxRetries < 0 || req.MaxRetries > maxRetriesAllowed {
		errors = append(errors, domain.NewOutOfRangeError("maxRetries", req.MaxRetries, 0, maxRetriesAllowed))
	}

	if req.MaxOutputTokens < 0 {
		errors = append(errors, domain.NewInvalidFormatError("maxOutputTokens", req.MaxOutputTokens))
	}

	if req.RetryDelayMs < 0 {
		errors = append(errors, domain.NewInvalidFormatError("retryDelayMs", req.RetryDelayMs))
	}

	return errors
}

// ValidateListRequest validates the stored-question listing parameters.
func (v *Validator) ValidateListRequest(category string, limit int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	}
	if limit < 0 || limit > maxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, maxQuestionCount))
	}

	return errors
}
