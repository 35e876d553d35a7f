package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
	"evidencelens/internal/port"
)

// Exchange is the outcome of one turn.
type Exchange struct {
	SessionID  uuid.UUID
	AnalysisID *uuid.UUID
	Reply      string
}

// Manager owns the single active chat session. Init replaces it wholesale.
// Turns against one session are not serialized here; callers await each reply.
type Manager struct {
	gen    port.ContentGenerator
	model  string
	logger *zap.Logger

	mu      sync.RWMutex
	current *Session
}

// NewManager creates a Manager with no active session.
func NewManager(gen port.ContentGenerator, model string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{gen: gen, model: model, logger: logger}
}

// Init seeds a new session from contextText, replacing any existing one.
// It is a silent no-op returning nil when no credential is configured.
func (m *Manager) Init(contextText string, analysisID *uuid.UUID) *Session {
	return m.Restore(contextText, analysisID, nil)
}

// Restore is Init with a prior transcript replayed into the session history.
func (m *Manager) Restore(contextText string, analysisID *uuid.UUID, turns []domain.ChatTurn) *Session {
	if !m.gen.HasCredential() {
		m.logger.Info("chat unavailable: no credential configured")
		return nil
	}
	s := newSession(contextText, analysisID)
	s.seed(turns)

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.logger.Debug("chat session initialized", zap.String("session_id", s.id.String()), zap.Int("restored_turns", len(turns)))
	return s
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Unbind detaches the active session from analysisID when it is bound to it.
// The conversation continues, but its turns are no longer attributed to a
// stored analysis.
func (m *Manager) Unbind(analysisID uuid.UUID) {
	s := m.Current()
	if s != nil && s.unbind(analysisID) {
		m.logger.Info("chat session unbound from deleted analysis",
			zap.String("session_id", s.id.String()),
			zap.String("analysis_id", analysisID.String()),
		)
	}
}

// SendTurn sends msg on the active session and returns the reply text.
func (m *Manager) SendTurn(ctx context.Context, msg string) (string, error) {
	ex, err := m.Exchange(ctx, msg)
	if err != nil {
		return "", err
	}
	return ex.Reply, nil
}

// Exchange is SendTurn that also reports which session answered.
func (m *Manager) Exchange(ctx context.Context, msg string) (*Exchange, error) {
	if !m.gen.HasCredential() {
		return nil, domain.ErrMissingCredential
	}
	s := m.Current()
	if s == nil {
		return nil, domain.ErrSessionNotReady
	}

	contents := append(s.snapshot(), gemini.Content{
		Role:  string(domain.TurnRoleUser),
		Parts: []gemini.Part{gemini.TextPart(msg)},
	})
	req := &gemini.Request{
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{gemini.TextPart(s.system)}},
		Contents:          contents,
	}

	resp, err := m.gen.GenerateContent(ctx, m.model, req)
	if err != nil {
		return nil, err
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		reply = FallbackReply
	}
	s.record(msg, reply)

	return &Exchange{SessionID: s.id, AnalysisID: s.AnalysisID(), Reply: reply}, nil
}
