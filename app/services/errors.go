// Package services holds the business workflows behind the HTTP layer.
package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/roastery/pkg/storage"
)

// ValidationError carries the complete field→message map collected in one
// validation pass. Controllers translate it to a 400 with every message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d fields)", len(e.Fields))
}

// NewValidationError wraps a field error map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldError builds a ValidationError for a single field.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// DuplicateError reports a uniqueness violation, e.g. an email already in use.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already in use"
}

// UploadError wraps an asset-store failure. Rejected uploads (size ceiling,
// content type) are the caller's fault; transfer failures are ours.
type UploadError struct {
	Rejected bool
	Err      error
}

func (e *UploadError) Error() string { return e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }

var (
	// ErrNotFound means the requested record does not exist or is hidden
	// by soft delete.
	ErrNotFound = errors.New("record not found")
	// ErrNotDeleted means restore was called on a record that is live.
	ErrNotDeleted = errors.New("record is not deleted")
	// ErrBadCredentials covers unknown email or wrong password alike.
	ErrBadCredentials = errors.New("invalid email or password")
)

// wrapUpload classifies an asset-store error. Acceptance failures carry no
// underlying cause; anything else is an I/O fault.
func wrapUpload(err error) error {
	var se *storage.StoreError
	if errors.As(err, &se) {
		return &UploadError{Rejected: se.Err == nil, Err: se}
	}
	return &UploadError{Err: err}
}
