package service

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced to the controller boundary. Everything here is
// recovered near the user action and rendered inline; none of it is fatal.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrEmptyChapter     = errors.New("chapter needs at least one page")
	ErrOutOfRange       = errors.New("index out of range")
	ErrConflict         = errors.New("series was modified concurrently")
)

// UploadError reports which page of a batch failed to upload.
type UploadError struct {
	Index int
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of page %d failed: %v", e.Index+1, e.Cause)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}
