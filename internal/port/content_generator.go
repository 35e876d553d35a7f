package port

import (
	"context"

	"evidencelens/internal/gemini"
)

// ContentGenerator abstracts the remote multimodal generation service.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, req *gemini.Request) (*gemini.Response, error)
	HasCredential() bool
}
