package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"evidencelens/internal/port"
)

// MockSourceArchive is a mock implementation of port.SourceArchive.
type MockSourceArchive struct {
	mock.Mock
}

func (m *MockSourceArchive) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UploadOutput), args.Error(1)
}

func (m *MockSourceArchive) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSourceArchive) GetPresignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
