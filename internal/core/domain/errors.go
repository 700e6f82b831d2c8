package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuestion indicates a missing, empty, or oversized question.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrMissingConfig indicates required credentials or settings are absent.
	// Adapters convert this into a failed result before any network call.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrNoMatches indicates a search or query succeeded but matched nothing.
	// Semantically empty outcomes are failures, not empty successes.
	ErrNoMatches = errors.New("no matches found")

	// ErrUnreadable indicates files matched but none yielded extractable text.
	// Kept distinct from ErrNoMatches so the brief can name the right gap.
	ErrUnreadable = errors.New("matched files were unreadable")

	// ErrNoAccount indicates no CRM account matched any lookup strategy.
	ErrNoAccount = errors.New("no matching account")

	// ErrRateLimited indicates the API rate limit was exceeded.
	// This is the only retryable class for the LLM polish step.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyCompletion indicates the model returned no text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrTemplateViolation indicates polished text failed the template guard.
	ErrTemplateViolation = errors.New("template violation")
)

// MissingKeysError reports which configuration keys a source is missing.
// Its message names every absent key so an operator can fix the environment
// in one pass.
type MissingKeysError struct {
	// System is the external system the keys belong to.
	System string

	// Keys are the absent configuration key names.
	Keys []string
}

// Error implements the error interface.
func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s credentials incomplete: missing env keys %s",
		e.System, strings.Join(e.Keys, ", "))
}

// Is makes errors.Is(err, ErrMissingConfig) match.
func (e *MissingKeysError) Is(target error) bool {
	return target == ErrMissingConfig
}

// APIError reports a non-2xx response from an external system.
type APIError struct {
	// System is the external system that answered.
	System string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is a truncated copy of the response body, for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.System, e.StatusCode)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.System, e.StatusCode, e.Body)
}

// Retryable reports whether the status code signals rate limiting or
// transient unavailability.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode == 503
}

// Is makes errors.Is(err, ErrRateLimited) match retryable API errors.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Retryable()
}
