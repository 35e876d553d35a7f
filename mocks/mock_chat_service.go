package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"evidencelens/internal/domain"
	"evidencelens/internal/service"
)

// MockChatService is a mock implementation of service.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) RestoreSession(ctx context.Context, analysisID uuid.UUID) (*service.SessionInfo, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionInfo), args.Error(1)
}

func (m *MockChatService) SendTurn(ctx context.Context, message string) (*service.TurnResult, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TurnResult), args.Error(1)
}

func (m *MockChatService) ListTurns(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatTurn), args.Error(1)
}
