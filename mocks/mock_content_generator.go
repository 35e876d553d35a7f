package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evidencelens/internal/gemini"
)

// MockContentGenerator is a mock implementation of port.ContentGenerator.
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, model string, req *gemini.Request) (*gemini.Response, error) {
	args := m.Called(ctx, model, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.Response), args.Error(1)
}

func (m *MockContentGenerator) HasCredential() bool {
	args := m.Called()
	return args.Bool(0)
}

// TextResponse builds a single-candidate response carrying text.
func TextResponse(text string) *gemini.Response {
	return &gemini.Response{
		Candidates: []gemini.Candidate{{
			Content:      gemini.Content{Role: "model", Parts: []gemini.Part{{Text: text}}},
			FinishReason: "STOP",
		}},
	}
}
