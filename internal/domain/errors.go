package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Generation pipeline errors
	CodeTransport        ErrorCode = "TRANSPORT_ERROR"
	CodeAPI              ErrorCode = "API_ERROR"
	CodeEmptyGeneration  ErrorCode = "EMPTY_GENERATION"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeParse            ErrorCode = "PARSE_ERROR"
	CodeShape            ErrorCode = "SHAPE_ERROR"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"

	// Request validation errors
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

// NewTransportError wraps a network or timeout failure of one generation attempt.
func NewTransportError(cause error) *DomainError {
	return NewError(CodeTransport, "generation request failed", cause)
}

// NewAPIError reports a non-2xx status or an unparsable response envelope.
func NewAPIError(status int, detail string) *DomainError {
	err := NewError(CodeAPI, fmt.Sprintf("generation API returned status %d", status), nil)
	err.Context = map[string]interface{}{"status": status, "detail": detail}
	return err
}

// NewUnexpectedResponseShapeError reports a well-formed HTTP response whose JSON
// does not carry the expected candidates/content/parts structure.
func NewUnexpectedResponseShapeError(cause error) *DomainError {
	return NewError(CodeAPI, "unexpected generation response shape", cause)
}

// NewEmptyGenerationError reports a well-formed envelope with no generated text.
func NewEmptyGenerationError(model string) *DomainError {
	err := NewError(CodeEmptyGeneration, "generation response contained no text", nil)
	err.Context = map[string]interface{}{"model": model}
	return err
}

// NewGenerationFailedError aggregates a terminal retry failure. It names the
// last underlying cause, the model identifier and the configured token limit.
func NewGenerationFailedError(model string, maxOutputTokens, attempts int, cause error) *DomainError {
	err := NewError(CodeGenerationFailed,
		fmt.Sprintf("text generation failed after %d attempts", attempts), cause)
	err.Context = map[string]interface{}{
		"model":           model,
		"maxOutputTokens": maxOutputTokens,
	}
	return err
}

// NewParseError reports that both parse attempts failed. It carries the first
// attempt's failure and a preview of the offending text.
func NewParseError(cause error, preview string) *DomainError {
	err := NewError(CodeParse, "failed to parse generated content", cause)
	err.Context = map[string]interface{}{"preview": preview}
	return err
}

// NewShapeError reports a parsed tree with no recognizable question list shape.
func NewShapeError(preview string) *DomainError {
	err := NewError(CodeShape, "no recognizable question list shape", nil)
	err.Context = map[string]interface{}{"preview": preview}
	return err
}

// NewQuestionValidationError reports a strict-mode field violation on one entry.
func NewQuestionValidationError(entry int, field, message string) *DomainError {
	err := NewError(CodeValidation,
		fmt.Sprintf("entry %d: %s: %s", entry, field, message), nil)
	err.Context = map[string]interface{}{"entry": entry, "field": field}
	return err
}

// ValidationError represents a single invalid field of an inbound request.
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates request validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Value: value, Message: "has an invalid format"}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
	}
}
