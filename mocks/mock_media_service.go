package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"evidencelens/internal/encoder"
)

// MockMediaService is a mock implementation of service.MediaService.
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Narration(ctx context.Context, analysisID uuid.UUID) (string, error) {
	args := m.Called(ctx, analysisID)
	return args.String(0), args.Error(1)
}

func (m *MockMediaService) Speech(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockMediaService) Transcribe(ctx context.Context, audio encoder.Source) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}

func (m *MockMediaService) Image(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
