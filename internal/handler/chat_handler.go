package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evidencelens/internal/service"
)

// ChatHandler handles follow-up conversation endpoints.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RestoreSession handles POST /api/v1/analyses/:id/session
// @Summary Resume chat about a stored analysis
// @Description Replaces the active chat session with one seeded from the stored report and transcript.
// @Tags chat
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=service.SessionInfo}
// @Failure 404 {object} ErrorResponseBody "Analysis not found"
// @Failure 503 {object} ErrorResponseBody "Model credential missing"
// @Router /analyses/{id}/session [post]
func (h *ChatHandler) RestoreSession(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	info, err := h.chatService.RestoreSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, info)
}

// SendTurn handles POST /api/v1/chat/turns
// @Summary Ask a follow-up question
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatTurnRequest true "Message"
// @Success 200 {object} Response{data=service.TurnResult}
// @Failure 400 {object} ErrorResponseBody "Empty message"
// @Failure 409 {object} ErrorResponseBody "No active session"
// @Failure 429 {object} ErrorResponseBody "Rate limited"
// @Router /chat/turns [post]
func (h *ChatHandler) SendTurn(c *gin.Context) {
	var req ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required")
		return
	}

	result, err := h.chatService.SendTurn(c.Request.Context(), req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ListTurns handles GET /api/v1/analyses/:id/turns
// @Summary Get the stored chat transcript for an analysis
// @Tags chat
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=ChatTranscript}
// @Failure 404 {object} ErrorResponseBody "Analysis not found"
// @Router /analyses/{id}/turns [get]
func (h *ChatHandler) ListTurns(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	turns, err := h.chatService.ListTurns(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ChatTranscript{AnalysisID: id, Turns: turns})
}
