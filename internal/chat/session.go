package chat

import (
	"sync"

	"github.com/google/uuid"

	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
)

// PolicyPreamble opens every chat system instruction.
const PolicyPreamble = `You are a careful research assistant answering follow-up questions about an evidence appraisal that was already produced for the user.
Ground every answer in the appraisal below. If the appraisal does not cover a question, say so plainly instead of guessing.
Do not give individual medical advice. Keep answers concise and use plain language unless the user asks for technical detail.

APPRAISAL:
`

// FallbackReply is returned when the model produces no text.
const FallbackReply = "I'm sorry, I couldn't generate a response to that. Could you rephrase your question?"

// Session is one conversational context bound to a fixed system instruction.
type Session struct {
	id     uuid.UUID
	system string

	mu         sync.Mutex
	analysisID *uuid.UUID
	history    []gemini.Content
}

func newSession(contextText string, analysisID *uuid.UUID) *Session {
	return &Session{
		id:         uuid.New(),
		analysisID: analysisID,
		system:     PolicyPreamble + contextText,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// AnalysisID is the stored analysis the session was seeded from, or nil once
// that analysis has been deleted.
func (s *Session) AnalysisID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysisID
}

// unbind detaches the session from analysisID if it is bound to it.
func (s *Session) unbind(analysisID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysisID == nil || *s.analysisID != analysisID {
		return false
	}
	s.analysisID = nil
	return true
}

func (s *Session) SystemInstruction() string { return s.system }

// Len returns the number of turns exchanged so far.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) snapshot() []gemini.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gemini.Content, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) record(user, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		gemini.Content{Role: string(domain.TurnRoleUser), Parts: []gemini.Part{gemini.TextPart(user)}},
		gemini.Content{Role: string(domain.TurnRoleModel), Parts: []gemini.Part{gemini.TextPart(reply)}},
	)
}

func (s *Session) seed(turns []domain.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range turns {
		s.history = append(s.history, gemini.Content{
			Role:  string(t.Role),
			Parts: []gemini.Part{gemini.TextPart(t.Text)},
		})
	}
}
