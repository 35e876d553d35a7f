package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"evidencelens/internal/domain"
	"evidencelens/internal/port"
)

type analysisRow struct {
	ID        uuid.UUID      `db:"id"`
	Role      string         `db:"role"`
	FocusArea string         `db:"focus_area"`
	Mode      string         `db:"mode"`
	Notes     string         `db:"notes"`
	Model     string         `db:"model"`
	Sources   types.JSONText `db:"sources"`
	Record    types.JSONText `db:"record"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row *analysisRow) toDomain() (*domain.Analysis, error) {
	a := &domain.Analysis{
		ID: row.ID,
		Options: domain.AnalysisOptions{
			Role:      domain.Role(row.Role),
			FocusArea: domain.FocusArea(row.FocusArea),
			Mode:      domain.Mode(row.Mode),
			Notes:     row.Notes,
		},
		Model:     row.Model,
		CreatedAt: row.CreatedAt,
	}
	if err := row.Sources.Unmarshal(&a.Sources); err != nil {
		return nil, fmt.Errorf("decoding sources: %w", err)
	}
	a.Record = &domain.AnalysisRecord{}
	if err := row.Record.Unmarshal(a.Record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return a, nil
}

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

const analysisColumns = "id, role, focus_area, mode, notes, model, sources, record, created_at"

func (r *analysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()

	sources, err := json.Marshal(a.Sources)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create sources: %w", err)
	}
	record, err := json.Marshal(a.Record)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create record: %w", err)
	}

	query := `INSERT INTO analyses (` + analysisColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.Options.Role, a.Options.FocusArea, a.Options.Mode, a.Options.Notes,
		a.Model, types.JSONText(sources), types.JSONText(record), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, "SELECT "+analysisColumns+" FROM analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	a, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return a, nil
}

func (r *analysisRepo) List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM analyses")
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	var rows []analysisRow
	err = r.db.SelectContext(ctx, &rows,
		"SELECT "+analysisColumns+" FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}

	analyses := make([]domain.Analysis, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, total, nil
}

func (r *analysisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("analysisRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
