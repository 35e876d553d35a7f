package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrMissingCredential        = errors.New("analysis service credential is not configured")
	ErrEmptyResponse            = errors.New("analysis service returned an empty response")
	ErrSessionNotReady          = errors.New("chat session is not initialized")
	ErrAudioGeneration          = errors.New("no audio was returned")
	ErrGeneration               = errors.New("no image was returned")
	ErrConflictingRequestConfig = errors.New("search augmentation cannot be combined with strict JSON output")
	ErrInvalidOptions           = errors.New("invalid analysis options")
	ErrArchiveDisabled          = errors.New("source archive is not configured")
	ErrTooManyFiles             = errors.New("too many files in one analysis")
	ErrEmptyInput               = errors.New("input must not be empty")
)

// EncodingError reports that one source could not be turned into an EncodedPart.
// It is per-file and never fatal to a batch on its own.
type EncodingError struct {
	FileName string
	Reason   string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %s", e.FileName, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// NoUsableInputError is returned when no submitted file could be encoded.
type NoUsableInputError struct {
	Message string
}

func (e *NoUsableInputError) Error() string {
	return e.Message
}

// MalformedResponseError means no valid record could be recovered from the model text.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analysis response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// FailureKind labels a classified remote failure.
type FailureKind string

const (
	FailureBadRequest        FailureKind = "BAD_REQUEST"
	FailureRateLimited       FailureKind = "RATE_LIMITED"
	FailureContentRejected   FailureKind = "CONTENT_REJECTED"
	FailureServiceOverloaded FailureKind = "SERVICE_OVERLOADED"
	FailureNetwork           FailureKind = "NETWORK_FAILURE"
	FailureUnknown           FailureKind = "UNKNOWN_FAILURE"
)

// UserFacingError is a remote failure labeled for the caller. Message is safe to
// show to an end user; Err keeps the underlying cause.
type UserFacingError struct {
	Kind       FailureKind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *UserFacingError) Error() string {
	return e.Message
}

func (e *UserFacingError) Unwrap() error {
	return e.Err
}

// Retryable reports whether waiting and trying again may succeed.
func (e *UserFacingError) Retryable() bool {
	switch e.Kind {
	case FailureRateLimited, FailureServiceOverloaded, FailureNetwork:
		return true
	default:
		return false
	}
}
