package port

import (
	"context"

	"github.com/google/uuid"

	"evidencelens/internal/domain"
)

// AnalysisRepository defines the contract for analysis persistence.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChatTurnRepository defines the contract for chat transcript persistence.
type ChatTurnRepository interface {
	Append(ctx context.Context, turn *domain.ChatTurn) error
	ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error)
}
