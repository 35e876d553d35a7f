package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/domain"
	"evidencelens/internal/handler"
	"evidencelens/internal/service"
	"evidencelens/mocks"
)

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChatHandler_SendTurn_Success(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)

	result := &service.TurnResult{
		User:  domain.NewChatTurn(domain.TurnRoleUser, "Sample size?"),
		Reply: domain.NewChatTurn(domain.TurnRoleModel, "240 participants."),
	}
	mockSvc.On("SendTurn", mock.Anything, "Sample size?").Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/chat/turns", handler.ChatTurnRequest{Message: "Sample size?"})

	h.SendTurn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "240 participants.")
}

func TestChatHandler_SendTurn_MissingMessage(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/chat/turns", map[string]string{})

	h.SendTurn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SendTurn", mock.Anything, mock.Anything)
}

func TestChatHandler_SendTurn_SessionNotReady(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)

	mockSvc.On("SendTurn", mock.Anything, "hi").Return(nil, domain.ErrSessionNotReady)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/chat/turns", handler.ChatTurnRequest{Message: "hi"})

	h.SendTurn(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatHandler_SendTurn_RateLimited(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)

	mockSvc.On("SendTurn", mock.Anything, "hi").Return(nil, &domain.UserFacingError{
		Kind:       domain.FailureRateLimited,
		Message:    "Too many requests. Please wait a moment and try again.",
		RetryAfter: 30 * time.Second,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/chat/turns", handler.ChatTurnRequest{Message: "hi"})

	h.SendTurn(c)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestChatHandler_RestoreSession(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)
	id := uuid.New()

	mockSvc.On("RestoreSession", mock.Anything, id).
		Return(&service.SessionInfo{SessionID: uuid.New(), AnalysisID: &id, RestoredTurns: 4}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.RestoreSession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"restored_turns":4`)
}

func TestChatHandler_ListTurns(t *testing.T) {
	mockSvc := new(mocks.MockChatService)
	h := handler.NewChatHandler(mockSvc)
	id := uuid.New()

	mockSvc.On("ListTurns", mock.Anything, id).Return([]domain.ChatTurn{domain.NewChatTurn(domain.TurnRoleUser, "q")}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.ListTurns(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data handler.ChatTranscript `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data.AnalysisID)
	assert.Len(t, resp.Data.Turns, 1)
}
