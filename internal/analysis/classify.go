package analysis

import (
	"errors"
	"strings"
	"time"

	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

const (
	msgBadRequest        = "The request could not be processed. Check that the files are in a supported format and try again."
	msgRateLimited       = "The analysis service is receiving too many requests. Please wait a moment and try again."
	msgContentRejected   = "The content was flagged by the analysis service's content policy and could not be processed."
	msgServiceOverloaded = "The analysis service is temporarily overloaded. Please try again later."
	msgNetworkFailure    = "Could not reach the analysis service. Check your connection and try again."
)

// Classify labels a remote failure. The first matching row wins:
// bad request, rate limit, content policy, overload, network, unknown.
// An error that is already a UserFacingError is returned as is.
func Classify(err error) *domain.UserFacingError {
	if err == nil {
		return nil
	}
	var ufe *domain.UserFacingError
	if errors.As(err, &ufe) {
		return ufe
	}

	status := 0
	var retryAfter time.Duration
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		retryAfter = apiErr.RetryAfter
	}
	msg := strings.ToLower(err.Error())

	switch {
	case status == 400 || strings.Contains(msg, "invalid argument"):
		return &domain.UserFacingError{Kind: domain.FailureBadRequest, Message: msgBadRequest, Err: err}
	case status == 429 || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return &domain.UserFacingError{Kind: domain.FailureRateLimited, Message: msgRateLimited, RetryAfter: retryAfter, Err: err}
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
		return &domain.UserFacingError{Kind: domain.FailureContentRejected, Message: msgContentRejected, Err: err}
	case status == 503 || strings.Contains(msg, "overloaded"):
		return &domain.UserFacingError{Kind: domain.FailureServiceOverloaded, Message: msgServiceOverloaded, Err: err}
	case strings.Contains(msg, "fetch failed") || strings.Contains(msg, "network"):
		return &domain.UserFacingError{Kind: domain.FailureNetwork, Message: msgNetworkFailure, Err: err}
	default:
		return &domain.UserFacingError{Kind: domain.FailureUnknown, Message: err.Error(), Err: err}
	}
}

// ClassifyRemote applies Classify at a call boundary, leaving errors the core
// raises itself untouched.
func ClassifyRemote(err error) error {
	if err == nil || isCoreError(err) {
		return err
	}
	return Classify(err)
}

func isCoreError(err error) bool {
	var encErr *domain.EncodingError
	var noInput *domain.NoUsableInputError
	var malformed *domain.MalformedResponseError
	return errors.As(err, &encErr) ||
		errors.As(err, &noInput) ||
		errors.As(err, &malformed) ||
		errors.Is(err, domain.ErrEmptyResponse) ||
		errors.Is(err, domain.ErrMissingCredential) ||
		errors.Is(err, domain.ErrConflictingRequestConfig) ||
		errors.Is(err, domain.ErrInvalidOptions) ||
		errors.Is(err, domain.ErrSessionNotReady) ||
		errors.Is(err, domain.ErrAudioGeneration) ||
		errors.Is(err, domain.ErrGeneration)
}
