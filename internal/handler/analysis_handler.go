package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/service"
)

// Form fields left empty fall back to these.
const (
	defaultRole      = domain.RoleStudent
	defaultFocusArea = domain.FocusGeneralOverview
	defaultMode      = domain.ModeQuick
)

// AnalysisHandler handles analysis submission and retrieval endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Create handles POST /api/v1/analyses
// @Summary Analyze research documents
// @Description Upload one or more documents and run a single structured analysis across all of them.
// @Description Files that cannot be encoded are skipped and reported in processing_warnings.
// @Tags analyses
// @Accept multipart/form-data
// @Produce json
// @Param files[] formData file true "Documents to analyze (repeatable)"
// @Param role formData string false "Audience role" Enums(Student, Clinician, Researcher, Other)
// @Param focus_area formData string false "Focus area" Enums(General Overview, Methodology, Clinical Relevance, Statistical Rigor, Bias & Limitations)
// @Param mode formData string false "Analysis mode" Enums(deep, quick)
// @Param notes formData string false "Free-text notes for the analysis"
// @Success 201 {object} Response{data=domain.Analysis} "Analysis completed"
// @Failure 400 {object} ErrorResponseBody "Invalid options or request"
// @Failure 422 {object} ErrorResponseBody "No usable input or content rejected"
// @Failure 429 {object} ErrorResponseBody "Rate limited"
// @Failure 502 {object} ErrorResponseBody "Malformed or empty model response"
// @Failure 503 {object} ErrorResponseBody "Service overloaded or not configured"
// @Router /analyses [post]
func (h *AnalysisHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form data is required")
		return
	}

	headers := form.File["files[]"]
	if len(headers) == 0 {
		headers = form.File["files"]
	}
	sources := make([]encoder.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, encoder.FileHeaderSource{Header: fh})
	}

	opts := domain.AnalysisOptions{
		Role:      domain.Role(c.DefaultPostForm("role", string(defaultRole))),
		FocusArea: domain.FocusArea(c.DefaultPostForm("focus_area", string(defaultFocusArea))),
		Mode:      domain.Mode(c.DefaultPostForm("mode", string(defaultMode))),
		Notes:     c.PostForm("notes"),
	}

	a, err := h.analysisService.Analyze(c.Request.Context(), service.AnalyzeInput{Sources: sources, Options: opts})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, a)
}

// List handles GET /api/v1/analyses
// @Summary List stored analyses
// @Tags analyses
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} Response{data=[]domain.Analysis,meta=PagMeta}
// @Failure 500 {object} ErrorResponseBody
// @Router /analyses [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	analyses, total, err := h.analysisService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/analyses/:id
// @Summary Get a stored analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=domain.Analysis}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	a, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, a)
}

// Delete handles DELETE /api/v1/analyses/:id
// @Summary Delete a stored analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /analyses/{id} [delete]
func (h *AnalysisHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.analysisService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "analysis deleted"})
}

// GetSourceURL handles GET /api/v1/analyses/:id/sources/:index/url
// @Summary Get a download link for an archived source file
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Param index path int true "Zero-based source index"
// @Success 200 {object} Response{data=SourceURLResponse}
// @Failure 400 {object} ErrorResponseBody "Invalid ID or index"
// @Failure 404 {object} ErrorResponseBody "Source not archived"
// @Failure 503 {object} ErrorResponseBody "Archive not configured"
// @Router /analyses/{id}/sources/{index}/url [get]
func (h *AnalysisHandler) GetSourceURL(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "source index must be a non-negative integer")
		return
	}

	url, err := h.analysisService.GetSourceURL(c.Request.Context(), id, index)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, SourceURLResponse{AnalysisID: id, Index: index, DownloadURL: url})
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return uuid.Nil, false
	}
	return id, true
}
