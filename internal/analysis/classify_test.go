package analysis_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/analysis"
	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{name: "status 400", err: &gemini.APIError{StatusCode: 400, Message: "Request contains an invalid value"}, want: domain.FailureBadRequest},
		{name: "invalid argument text", err: errors.New("INVALID ARGUMENT: unsupported mime type"), want: domain.FailureBadRequest},
		{name: "status 429", err: &gemini.APIError{StatusCode: 429, Message: "slow down"}, want: domain.FailureRateLimited},
		{name: "quota text", err: errors.New("Quota exceeded for project"), want: domain.FailureRateLimited},
		{name: "rate limit text", err: errors.New("rate limit reached"), want: domain.FailureRateLimited},
		{name: "safety text", err: errors.New("candidate stopped for SAFETY"), want: domain.FailureContentRejected},
		{name: "blocked error", err: &gemini.BlockedError{Reason: "OTHER"}, want: domain.FailureContentRejected},
		{name: "status 503", err: &gemini.APIError{StatusCode: 503, Message: "unavailable"}, want: domain.FailureServiceOverloaded},
		{name: "overloaded text", err: errors.New("The model is overloaded"), want: domain.FailureServiceOverloaded},
		{name: "fetch failed", err: errors.New("TypeError: fetch failed"), want: domain.FailureNetwork},
		{name: "network wrapped", err: fmt.Errorf("network error calling gemini API: %w", errors.New("dial tcp: connection refused")), want: domain.FailureNetwork},
		{name: "unknown", err: errors.New("something odd happened"), want: domain.FailureUnknown},
		{name: "status 500 unknown", err: &gemini.APIError{StatusCode: 500, Message: "internal"}, want: domain.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_TableOrderBreaksTies(t *testing.T) {
	got := analysis.Classify(errors.New("quota exhausted because the model is overloaded"))
	assert.Equal(t, domain.FailureRateLimited, got.Kind)

	got = analysis.Classify(&gemini.APIError{StatusCode: 503, Message: "request blocked"})
	assert.Equal(t, domain.FailureContentRejected, got.Kind)

	got = analysis.Classify(&gemini.APIError{StatusCode: 400, Message: "quota"})
	assert.Equal(t, domain.FailureBadRequest, got.Kind)
}

func TestClassify_UnknownKeepsMessageVerbatim(t *testing.T) {
	got := analysis.Classify(errors.New("Weird Upstream Thing"))
	assert.Equal(t, "Weird Upstream Thing", got.Message)
}

func TestClassify_Idempotent(t *testing.T) {
	inputs := []error{
		&gemini.APIError{StatusCode: 429, Message: "x", RetryAfter: 5 * time.Second},
		errors.New("network down"),
		errors.New("mystery"),
	}
	for _, in := range inputs {
		once := analysis.Classify(in)
		twice := analysis.Classify(once)
		assert.Same(t, once, twice)
	}
}

func TestClassify_RateLimitedCarriesRetryAfter(t *testing.T) {
	got := analysis.Classify(&gemini.APIError{StatusCode: 429, Message: "x", RetryAfter: 12 * time.Second})
	assert.Equal(t, 12*time.Second, got.RetryAfter)
	assert.True(t, got.Retryable())
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, analysis.Classify(nil))
	assert.NoError(t, analysis.ClassifyRemote(nil))
}

func TestClassifyRemote_PassesCoreErrorsThrough(t *testing.T) {
	core := []error{
		domain.ErrMissingCredential,
		domain.ErrEmptyResponse,
		domain.ErrConflictingRequestConfig,
		&domain.NoUsableInputError{Message: "No valid files were supplied for analysis."},
		&domain.MalformedResponseError{Err: errors.New("network of braces")},
		&domain.EncodingError{FileName: "a.pdf", Reason: "blocked by antivirus"},
	}
	for _, err := range core {
		assert.Same(t, err, analysis.ClassifyRemote(err))
	}

	remote := errors.New("overloaded")
	var ufe *domain.UserFacingError
	require.True(t, errors.As(analysis.ClassifyRemote(remote), &ufe))
	assert.Equal(t, domain.FailureServiceOverloaded, ufe.Kind)
}
