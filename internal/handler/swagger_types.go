package handler

import (
	"github.com/google/uuid"

	"evidencelens/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ChatTurnRequest represents the chat turn request body.
type ChatTurnRequest struct {
	Message string `json:"message" binding:"required" example:"How large was the control group?"`
}

// SpeechRequest represents the text-to-speech request body.
type SpeechRequest struct {
	Text string `json:"text" binding:"required" example:"Here is a quick overview of the analysis."`
}

// ImageRequest represents the image generation request body.
type ImageRequest struct {
	Prompt string `json:"prompt" binding:"required" example:"A clean infographic of a randomized controlled trial design"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Gemini string `json:"gemini,omitempty" example:"configured"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// SourceURLResponse carries a presigned download link for an archived source.
type SourceURLResponse struct {
	AnalysisID  uuid.UUID `json:"analysis_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Index       int       `json:"index" example:"0"`
	DownloadURL string    `json:"download_url" example:"https://s3.amazonaws.com/evidencelens-sources/...?X-Amz-Signature=..."`
}

// NarrationResponse carries a spoken-overview script.
type NarrationResponse struct {
	Script string `json:"script" example:"Here is a quick overview of the analysis. The trial found..."`
}

// AudioResponse carries generated speech.
type AudioResponse struct {
	AudioURI string `json:"audio_uri" example:"data:audio/wav;base64,UklGR..."`
}

// TranscriptionResponse carries transcribed text.
type TranscriptionResponse struct {
	Text string `json:"text" example:"What was the hazard ratio?"`
}

// ImageResponse carries a generated image.
type ImageResponse struct {
	ImageURI string `json:"image_uri" example:"data:image/png;base64,iVBORw0..."`
}

// ChatTranscript is the stored conversation for one analysis.
type ChatTranscript struct {
	AnalysisID uuid.UUID         `json:"analysis_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Turns      []domain.ChatTurn `json:"turns"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
