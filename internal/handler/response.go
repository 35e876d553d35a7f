package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"evidencelens/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Classified remote failures keep their user-facing message.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		ufe       *domain.UserFacingError
		noInput   *domain.NoUsableInputError
		encErr    *domain.EncodingError
		malformed *domain.MalformedResponseError
	)
	switch {
	case errors.As(err, &ufe):
		return mapFailureKind(ufe)
	case errors.As(err, &noInput):
		return http.StatusUnprocessableEntity, "NO_USABLE_INPUT", noInput.Message
	case errors.As(err, &encErr):
		return http.StatusBadRequest, "ENCODING_FAILED", encErr.Error()
	case errors.As(err, &malformed):
		return http.StatusBadGateway, "MALFORMED_RESPONSE", "the analysis service returned a response that could not be read"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrInvalidOptions):
		return http.StatusBadRequest, "INVALID_OPTIONS", err.Error()
	case errors.Is(err, domain.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES", "too many files in one analysis"
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest, "EMPTY_INPUT", "input must not be empty"
	case errors.Is(err, domain.ErrSessionNotReady):
		return http.StatusConflict, "SESSION_NOT_READY", "no chat session is active; run or restore an analysis first"
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable, "MISSING_CREDENTIAL", "the analysis service is not configured"
	case errors.Is(err, domain.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "source archiving is not configured"
	case errors.Is(err, domain.ErrEmptyResponse):
		return http.StatusBadGateway, "EMPTY_RESPONSE", "the analysis service returned an empty response"
	case errors.Is(err, domain.ErrAudioGeneration):
		return http.StatusBadGateway, "AUDIO_GENERATION_FAILED", "no audio was returned"
	case errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway, "GENERATION_FAILED", "no image was returned"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

func mapFailureKind(ufe *domain.UserFacingError) (status int, code, msg string) {
	switch ufe.Kind {
	case domain.FailureBadRequest:
		status = http.StatusBadRequest
	case domain.FailureRateLimited:
		status = http.StatusTooManyRequests
	case domain.FailureContentRejected:
		status = http.StatusUnprocessableEntity
	case domain.FailureServiceOverloaded:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusBadGateway
	}
	return status, string(ufe.Kind), ufe.Message
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)

	var ufe *domain.UserFacingError
	if errors.As(err, &ufe) && ufe.Retryable() && ufe.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ufe.RetryAfter.Seconds()))))
	}
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		zap.L().Error("request failed",
			zap.Any("request_id", requestID),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
