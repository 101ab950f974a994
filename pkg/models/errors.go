package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the feedback core. Services wrap these with entity
// kind and id; the HTTP adapter maps them to status codes with errors.Is.
var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotFound         = errors.New("resource not found")

	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidToken    = errors.New("invalid or expired token")

	ErrInvalidVoteDirection = errors.New("invalid vote direction")
	ErrInvalidInput         = errors.New("invalid input")
)

// FieldError is a single field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a structured field-error list. It is detected before
// any store access and surfaced as a 400 with per-field messages.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error and returns the extended list
func (v ValidationErrors) Add(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field errors were collected
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ErrorResponse is the standard error body for API failures
type ErrorResponse struct {
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// NewErrorResponse builds an error body with the current timestamp
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Status: status, Message: message, Timestamp: time.Now()}
}
