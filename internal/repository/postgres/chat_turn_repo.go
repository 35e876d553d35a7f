package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"evidencelens/internal/domain"
	"evidencelens/internal/port"
)

type chatTurnRepo struct {
	db *sqlx.DB
}

// NewChatTurnRepo creates a new PostgreSQL-backed ChatTurnRepository.
func NewChatTurnRepo(db *sqlx.DB) port.ChatTurnRepository {
	return &chatTurnRepo{db: db}
}

func (r *chatTurnRepo) Append(ctx context.Context, turn *domain.ChatTurn) error {
	query := `INSERT INTO chat_turns (id, analysis_id, role, text, created_at)
		VALUES (:id, :analysis_id, :role, :text, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, turn)
	if err != nil {
		return fmt.Errorf("chatTurnRepo.Append: %w", err)
	}
	return nil
}

func (r *chatTurnRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error) {
	var turns []domain.ChatTurn
	err := r.db.SelectContext(ctx, &turns,
		`SELECT id, analysis_id, role, text, created_at FROM chat_turns
		WHERE analysis_id = $1 ORDER BY created_at ASC`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("chatTurnRepo.ListByAnalysis: %w", err)
	}
	if turns == nil {
		turns = []domain.ChatTurn{}
	}
	return turns, nil
}
