package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evidencelens/internal/analysis"
	"evidencelens/internal/chat"
	"evidencelens/internal/domain"
	"evidencelens/internal/metrics"
	"evidencelens/internal/port"
)

// SessionInfo describes the active chat session.
type SessionInfo struct {
	SessionID     uuid.UUID  `json:"session_id"`
	AnalysisID    *uuid.UUID `json:"analysis_id,omitempty"`
	RestoredTurns int        `json:"restored_turns"`
}

// TurnResult is one completed exchange.
type TurnResult struct {
	User  domain.ChatTurn `json:"user"`
	Reply domain.ChatTurn `json:"reply"`
}

// ChatService defines the follow-up conversation contract.
type ChatService interface {
	RestoreSession(ctx context.Context, analysisID uuid.UUID) (*SessionInfo, error)
	SendTurn(ctx context.Context, message string) (*TurnResult, error)
	ListTurns(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error)
}

type chatService struct {
	manager      *chat.Manager
	analysisRepo port.AnalysisRepository
	turnRepo     port.ChatTurnRepository
	logger       *zap.Logger
}

// NewChatService creates a new ChatService implementation.
func NewChatService(
	manager *chat.Manager,
	analysisRepo port.AnalysisRepository,
	turnRepo port.ChatTurnRepository,
	logger *zap.Logger,
) ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &chatService{
		manager:      manager,
		analysisRepo: analysisRepo,
		turnRepo:     turnRepo,
		logger:       logger,
	}
}

func (s *chatService) RestoreSession(ctx context.Context, analysisID uuid.UUID) (*SessionInfo, error) {
	a, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turnRepo.ListByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	sess := s.manager.Restore(a.Record.FullReport, &a.ID, turns)
	if sess == nil {
		return nil, domain.ErrMissingCredential
	}
	return &SessionInfo{SessionID: sess.ID(), AnalysisID: sess.AnalysisID(), RestoredTurns: len(turns)}, nil
}

func (s *chatService) SendTurn(ctx context.Context, message string) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyInput
	}

	userTurn := domain.NewChatTurn(domain.TurnRoleUser, message)
	ex, err := s.manager.Exchange(ctx, message)
	if err != nil {
		err = analysis.ClassifyRemote(err)
		var ufe *domain.UserFacingError
		if errors.As(err, &ufe) {
			metrics.RemoteFailures.WithLabelValues("chat", string(ufe.Kind)).Inc()
		}
		metrics.ChatTurns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ChatTurns.WithLabelValues("success").Inc()

	replyTurn := domain.NewChatTurn(domain.TurnRoleModel, ex.Reply)
	userTurn.AnalysisID = ex.AnalysisID
	replyTurn.AnalysisID = ex.AnalysisID

	if ex.AnalysisID != nil {
		for _, t := range []*domain.ChatTurn{&userTurn, &replyTurn} {
			if err := s.turnRepo.Append(ctx, t); err != nil {
				s.logger.Warn("failed to store chat turn", zap.String("turn_id", t.ID.String()), zap.Error(err))
			}
		}
	}

	return &TurnResult{User: userTurn, Reply: replyTurn}, nil
}

func (s *chatService) ListTurns(ctx context.Context, analysisID uuid.UUID) ([]domain.ChatTurn, error) {
	if _, err := s.analysisRepo.GetByID(ctx, analysisID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListByAnalysis(ctx, analysisID)
}
