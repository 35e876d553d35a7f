package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/chat"
	"evidencelens/internal/domain"
	"evidencelens/internal/gemini"
	"evidencelens/mocks"
)

func systemText(req *gemini.Request) string {
	if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
		return ""
	}
	return req.SystemInstruction.Parts[0].Text
}

func TestSendTurn_BeforeInit(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)

	m := chat.NewManager(gen, "chat-model", nil)
	_, err := m.SendTurn(context.Background(), "hello")

	assert.ErrorIs(t, err, domain.ErrSessionNotReady)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestInit_NoCredentialIsSilent(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(false)

	m := chat.NewManager(gen, "chat-model", nil)
	s := m.Init("report", nil)

	assert.Nil(t, s)
	assert.Nil(t, m.Current())

	_, err := m.SendTurn(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestSendTurn_UsesSessionContext(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, "chat-model", mock.MatchedBy(func(req *gemini.Request) bool {
		return systemText(req) == chat.PolicyPreamble+"REPORT ONE" &&
			len(req.Contents) == 1 &&
			req.Contents[0].Role == "user" &&
			req.Contents[0].Parts[0].Text == "What was the sample size?"
	})).Return(mocks.TextResponse("  240 participants. "), nil).Once()

	m := chat.NewManager(gen, "chat-model", nil)
	m.Init("REPORT ONE", nil)

	reply, err := m.SendTurn(context.Background(), "What was the sample size?")

	require.NoError(t, err)
	assert.Equal(t, "240 participants.", reply)
	assert.Equal(t, 2, m.Current().Len())
	gen.AssertExpectations(t)
}

func TestSendTurn_CarriesHistory(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.MatchedBy(func(req *gemini.Request) bool {
		return len(req.Contents) == 1
	})).Return(mocks.TextResponse("first"), nil).Once()
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.MatchedBy(func(req *gemini.Request) bool {
		return len(req.Contents) == 3 &&
			req.Contents[1].Role == "model" && req.Contents[1].Parts[0].Text == "first" &&
			req.Contents[2].Parts[0].Text == "q2"
	})).Return(mocks.TextResponse("second"), nil).Once()

	m := chat.NewManager(gen, "chat-model", nil)
	m.Init("ctx", nil)

	_, err := m.SendTurn(context.Background(), "q1")
	require.NoError(t, err)
	reply, err := m.SendTurn(context.Background(), "q2")
	require.NoError(t, err)
	assert.Equal(t, "second", reply)
	gen.AssertExpectations(t)
}

func TestInit_ReplacesSession(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.MatchedBy(func(req *gemini.Request) bool {
		return strings.HasSuffix(systemText(req), "OLD")
	})).Return(mocks.TextResponse("old answer"), nil)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.MatchedBy(func(req *gemini.Request) bool {
		return strings.HasSuffix(systemText(req), "NEW") && len(req.Contents) == 1
	})).Return(mocks.TextResponse("new answer"), nil)

	m := chat.NewManager(gen, "chat-model", nil)
	first := m.Init("OLD", nil)
	_, err := m.SendTurn(context.Background(), "q")
	require.NoError(t, err)

	second := m.Init("NEW", nil)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Same(t, second, m.Current())

	reply, err := m.SendTurn(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "new answer", reply)
	assert.Equal(t, 2, first.Len(), "the replaced session is untouched")
}

func TestSendTurn_EmptyReplyFallsBack(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(&gemini.Response{}, nil)

	m := chat.NewManager(gen, "chat-model", nil)
	m.Init("ctx", nil)

	reply, err := m.SendTurn(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, chat.FallbackReply, reply)
}

func TestSendTurn_RemoteErrorPropagates(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	remoteErr := &gemini.APIError{StatusCode: 503, Message: "overloaded"}
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(nil, remoteErr)

	m := chat.NewManager(gen, "chat-model", nil)
	m.Init("ctx", nil)

	_, err := m.SendTurn(context.Background(), "q")

	var apiErr *gemini.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Zero(t, m.Current().Len(), "failed turns are not recorded")
}

func TestRestore_ReplaysTranscriptAndBindsAnalysis(t *testing.T) {
	analysisID := uuid.New()
	turns := []domain.ChatTurn{
		domain.NewChatTurn(domain.TurnRoleUser, "earlier question"),
		domain.NewChatTurn(domain.TurnRoleModel, "earlier answer"),
	}

	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.MatchedBy(func(req *gemini.Request) bool {
		return len(req.Contents) == 3 && req.Contents[0].Parts[0].Text == "earlier question"
	})).Return(mocks.TextResponse("ok"), nil)

	m := chat.NewManager(gen, "chat-model", nil)
	s := m.Restore("ctx", &analysisID, turns)
	require.NotNil(t, s)

	ex, err := m.Exchange(context.Background(), "follow-up")

	require.NoError(t, err)
	require.NotNil(t, ex.AnalysisID)
	assert.Equal(t, analysisID, *ex.AnalysisID)
	assert.Equal(t, s.ID(), ex.SessionID)
	assert.Equal(t, "ok", ex.Reply)
}

func TestUnbind_DetachesOnlyMatchingAnalysis(t *testing.T) {
	bound := uuid.New()

	gen := new(mocks.MockContentGenerator)
	gen.On("HasCredential").Return(true)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(mocks.TextResponse("still here"), nil)

	m := chat.NewManager(gen, "chat-model", nil)
	s := m.Init("ctx", &bound)
	require.NotNil(t, s)

	m.Unbind(uuid.New())
	require.NotNil(t, s.AnalysisID())
	assert.Equal(t, bound, *s.AnalysisID())

	m.Unbind(bound)
	assert.Nil(t, s.AnalysisID())
	assert.Same(t, s, m.Current())

	ex, err := m.Exchange(context.Background(), "anything else?")
	require.NoError(t, err)
	assert.Nil(t, ex.AnalysisID)
	assert.Equal(t, "still here", ex.Reply)
}

func TestUnbind_WithoutSession(t *testing.T) {
	gen := new(mocks.MockContentGenerator)
	m := chat.NewManager(gen, "chat-model", nil)

	assert.NotPanics(t, func() { m.Unbind(uuid.New()) })
	assert.Nil(t, m.Current())
}
