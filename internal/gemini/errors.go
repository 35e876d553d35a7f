package gemini

import (
	"fmt"
	"strconv"
	"time"
)

// APIError is a non-200 reply from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini API error (status %d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Message)
}

// BlockedError means the prompt or the candidate was stopped by content policy.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked by gemini content policy: %s", e.Reason)
}

// ParseRetryAfterHeader parses a Retry-After header value into a duration.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) time.Duration {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
