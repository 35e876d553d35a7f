package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/handler"
	"evidencelens/mocks"
)

func TestMediaHandler_Narration(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)
	id := uuid.New()

	mockSvc.On("Narration", mock.Anything, id).Return("Here is a quick overview.", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Narration(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Here is a quick overview.")
}

func TestMediaHandler_Speech_NoAudio(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	mockSvc.On("Speech", mock.Anything, "hello").Return("", domain.ErrAudioGeneration)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/speech", handler.SpeechRequest{Text: "hello"})

	h.Speech(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMediaHandler_Speech_Success(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	mockSvc.On("Speech", mock.Anything, "hello").Return("data:audio/wav;base64,AAAA", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/speech", handler.SpeechRequest{Text: "hello"})

	h.Speech(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data:audio/wav;base64,AAAA")
}

func TestMediaHandler_Transcribe(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	mockSvc.On("Transcribe", mock.Anything, mock.MatchedBy(func(src encoder.Source) bool {
		return src.Name() == "clip.webm"
	})).Return("what was the p value", nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", "clip.webm")
	require.NoError(t, err)
	_, _ = part.Write([]byte("audio-bytes"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/transcriptions", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Transcribe(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "what was the p value")
}

func TestMediaHandler_Transcribe_MissingFile(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/transcriptions", http.NoBody)

	h.Transcribe(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_Image_MissingPrompt(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/images", map[string]string{})

	h.Image(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_Image_MissingCredential(t *testing.T) {
	mockSvc := new(mocks.MockMediaService)
	h := handler.NewMediaHandler(mockSvc)

	mockSvc.On("Image", mock.Anything, "trial diagram").Return("", domain.ErrMissingCredential)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/images", handler.ImageRequest{Prompt: "trial diagram"})

	h.Image(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
