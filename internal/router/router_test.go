package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"evidencelens/internal/domain"
	"evidencelens/internal/handler"
	"evidencelens/internal/router"
	"evidencelens/mocks"
)

func newEngine() (*gin.Engine, *mocks.MockAnalysisService) {
	gin.SetMode(gin.TestMode)
	analysisSvc := new(mocks.MockAnalysisService)
	h := router.Handlers{
		Analysis: handler.NewAnalysisHandler(analysisSvc),
		Chat:     handler.NewChatHandler(new(mocks.MockChatService)),
		Media:    handler.NewMediaHandler(new(mocks.MockMediaService)),
		Health:   handler.NewHealthHandler(nil, nil),
	}
	return router.Setup(h, []string{"http://localhost:3000"}, 32<<20, zap.NewNop()), analysisSvc
}

func TestSetup_Routes(t *testing.T) {
	r, analysisSvc := newEngine()
	id := uuid.New()
	analysisSvc.On("GetByID", mock.Anything, id).Return(&domain.Analysis{ID: id}, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/analyses/" + id.String(), http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
