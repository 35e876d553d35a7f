package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"evidencelens/internal/config"
	"evidencelens/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// finish reasons that mean the candidate was withheld by policy.
var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"PROHIBITED_CONTENT": true,
	"BLOCKLIST":          true,
	"SPII":               true,
	"IMAGE_SAFETY":       true,
}

// Client calls the Gemini generateContent endpoint over REST.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a Gemini client from configuration.
func NewClient(cfg *config.GeminiConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return NewClientWithHTTP(cfg, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client (for testing).
func NewClientWithHTTP(cfg *config.GeminiConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		client:  httpClient,
		logger:  logger,
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// GenerateContent sends req to model and returns the decoded envelope.
// Without a credential it fails with domain.ErrMissingCredential before any I/O.
func (c *Client) GenerateContent(ctx context.Context, model string, req *Request) (*Response, error) {
	if !c.HasCredential() {
		return nil, domain.ErrMissingCredential
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("network error calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("network error reading gemini response: %w", err)
	}

	c.logger.Debug("gemini call completed",
		zap.String("model", model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp, respBody)
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Reason: out.PromptFeedback.BlockReason}
	}
	if len(out.Candidates) > 0 {
		cand := out.Candidates[0]
		if blockedFinishReasons[cand.FinishReason] && len(cand.Content.Parts) == 0 {
			return nil, &BlockedError{Reason: cand.FinishReason}
		}
	}

	return &out, nil
}

// errorBody is the error envelope Google APIs return on failure.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    truncate(string(body), 500),
		RetryAfter: ParseRetryAfterHeader(resp.Header.Get("Retry-After")),
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		apiErr.Message = eb.Error.Message
		apiErr.Status = eb.Error.Status
	}
	return apiErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
