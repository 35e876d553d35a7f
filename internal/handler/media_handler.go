package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evidencelens/internal/encoder"
	"evidencelens/internal/service"
)

// MediaHandler handles narration, speech, transcription and image endpoints.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Narration handles POST /api/v1/analyses/:id/narration
// @Summary Write a spoken overview script for an analysis
// @Tags media
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=NarrationResponse}
// @Failure 404 {object} ErrorResponseBody "Analysis not found"
// @Router /analyses/{id}/narration [post]
func (h *MediaHandler) Narration(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	script, err := h.mediaService.Narration(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, NarrationResponse{Script: script})
}

// Speech handles POST /api/v1/speech
// @Summary Synthesize speech
// @Tags media
// @Accept json
// @Produce json
// @Param request body SpeechRequest true "Text to speak"
// @Success 200 {object} Response{data=AudioResponse}
// @Failure 400 {object} ErrorResponseBody "Missing text"
// @Failure 502 {object} ErrorResponseBody "No audio returned"
// @Router /speech [post]
func (h *MediaHandler) Speech(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	uri, err := h.mediaService.Speech(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, AudioResponse{AudioURI: uri})
}

// Transcribe handles POST /api/v1/transcriptions
// @Summary Transcribe a voice recording
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio clip"
// @Success 200 {object} Response{data=TranscriptionResponse}
// @Failure 400 {object} ErrorResponseBody "Missing or unreadable audio"
// @Router /transcriptions [post]
func (h *MediaHandler) Transcribe(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "audio field is required")
		return
	}

	text, err := h.mediaService.Transcribe(c.Request.Context(), encoder.FileHeaderSource{Header: fh})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, TranscriptionResponse{Text: text})
}

// Image handles POST /api/v1/images
// @Summary Generate an illustrative image
// @Tags media
// @Accept json
// @Produce json
// @Param request body ImageRequest true "Prompt"
// @Success 200 {object} Response{data=ImageResponse}
// @Failure 400 {object} ErrorResponseBody "Missing prompt"
// @Failure 502 {object} ErrorResponseBody "No image returned"
// @Router /images [post]
func (h *MediaHandler) Image(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "prompt is required")
		return
	}

	uri, err := h.mediaService.Image(c.Request.Context(), req.Prompt)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ImageResponse{ImageURI: uri})
}
