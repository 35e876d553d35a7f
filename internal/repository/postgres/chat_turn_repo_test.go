package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/domain"
)

func TestChatTurnRepo_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatTurnRepo(db)
	analysisID := uuid.New()
	turn := domain.NewChatTurn(domain.TurnRoleUser, "what about bias?")
	turn.AnalysisID = &analysisID

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_turns (id, analysis_id, role, text, created_at)")).
		WithArgs(turn.ID, &analysisID, domain.TurnRoleUser, "what about bias?", turn.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Append(context.Background(), &turn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatTurnRepo_Append_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatTurnRepo(db)
	turn := domain.NewChatTurn(domain.TurnRoleModel, "reply")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_turns")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Append(context.Background(), &turn)
	assert.ErrorContains(t, err, "chatTurnRepo.Append")
}

func TestChatTurnRepo_ListByAnalysis(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatTurnRepo(db)
	analysisID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM chat_turns")).
		WithArgs(analysisID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "analysis_id", "role", "text", "created_at"}).
			AddRow(uuid.New().String(), analysisID.String(), "user", "q", now).
			AddRow(uuid.New().String(), analysisID.String(), "model", "a", now.Add(time.Second)))

	turns, err := repo.ListByAnalysis(context.Background(), analysisID)

	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.TurnRoleUser, turns[0].Role)
	assert.Equal(t, "a", turns[1].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatTurnRepo_ListByAnalysis_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatTurnRepo(db)
	analysisID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM chat_turns")).
		WithArgs(analysisID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "analysis_id", "role", "text", "created_at"}))

	turns, err := repo.ListByAnalysis(context.Background(), analysisID)

	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}
