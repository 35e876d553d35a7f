package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"evidencelens/internal/domain"
)

// MockChatTurnRepo is a mock implementation of port.ChatTurnRepository.
type MockChatTurnRepo struct {
	mock.Mock
}

func (m *MockChatTurnRepo) Append(ctx context.Context, turn *domain.ChatTurn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

func (m *MockChatTurnRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatTurn), args.Error(1)
}
