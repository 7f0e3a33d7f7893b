package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCollection is returned when the target collection id is missing or not positive.
	ErrInvalidCollection = errors.New("invalid collection")
	// ErrNotAccessible is returned when the caller neither owns nor is a member of the collection.
	ErrNotAccessible = errors.New("collection not accessible")
)

// AccessError is returned by the collection deletion flow when a request is
// rejected before any mutation. Both kinds surface as 401 with a user-facing
// message, matching what the web client expects.
type AccessError struct {
	Message string
	Kind    error // ErrInvalidCollection or ErrNotAccessible
}

// NewInvalidCollectionError builds the error for a missing or non-positive collection id
func NewInvalidCollectionError() *AccessError {
	return &AccessError{Message: "Please choose a valid collection.", Kind: ErrInvalidCollection}
}

// NewNotAccessibleError builds the error for a caller without any relationship to the collection
func NewNotAccessibleError() *AccessError {
	return &AccessError{Message: "Collection is not accessible.", Kind: ErrNotAccessible}
}

func (e *AccessError) Error() string   { return e.Message }
func (e *AccessError) StatusCode() int { return http.StatusUnauthorized }

// Is allows errors.Is() to match against the wrapped kind
func (e *AccessError) Is(target error) bool {
	return target == e.Kind
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (collection, link, section)
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
