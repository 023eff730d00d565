package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found or is not owned by the caller
	NotFoundError struct {
		Resource string
		ID       string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is lets errors.Is match the typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream failure")
	ErrPersistence  = errors.New("persistence failure")

	// ErrInvalidPath is returned when a folder path has no usable segments
	ErrInvalidPath = fmt.Errorf("invalid folder path: %w", ErrValidation)

	// ErrUnsupportedFileType is returned for generate_file formats other than pdf, docx, csv, xlsx
	ErrUnsupportedFileType = fmt.Errorf("unsupported file type: %w", ErrValidation)
)

// NewNotFound builds a NotFoundError for the given resource kind and id.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, item, conversation)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UpstreamError wraps a failure from an external collaborator (LLM gateway, renderer).
// Retryable is true for timeouts, network errors, rate limits and 5xx responses.
type UpstreamError struct {
	Service   string
	Status    int
	Retryable bool
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) StatusCode() int {
	if e.Retryable {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// IsRetryable reports whether err carries a retryable upstream failure.
func IsRetryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Retryable
	}
	return false
}

// PersistenceError hides a storage failure behind a user-facing message.
// Error() returns only Message; the cause stays reachable through Unwrap for logging.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string { return e.Message }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) StatusCode() int { return http.StatusInternalServerError }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// WrapPersistence converts a storage error into a PersistenceError unless it already
// carries a domain meaning (not found, validation, conflict) that callers must see.
func WrapPersistence(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Message: message, Err: err}
}
