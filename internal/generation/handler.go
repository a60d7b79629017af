package generation

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/artifacts"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
)

// Handler exposes the generation workflows over HTTP.
type Handler struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// Register mounts the generation routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate/resume", h.GenerateResume)
	rg.POST("/generate/cover-letter", h.GenerateCoverLetter)
	rg.POST("/generate/skills", h.OptimizeSkills)
	rg.POST("/generate/experience", h.TailorExperience)
	rg.POST("/generate/company-research", h.GenerateCompanyResearch)
	rg.POST("/generate/salary-research", h.GenerateSalaryResearch)
	rg.GET("/artifacts", h.ListArtifacts)
	rg.GET("/artifacts/:id", h.GetArtifact)
}

type jobGenerateRequest struct {
	JobID int64 `json:"jobId"`
	Options
}

type companyResearchRequest struct {
	CompanyName string `json:"companyName"`
	JobID       int64  `json:"jobId"`
}

type salaryResearchRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

// GenerateResume handles POST /generate/resume.
func (h *Handler) GenerateResume(c *gin.Context) {
	h.handleJobGenerate(c, h.Service.GenerateResume)
}

// GenerateCoverLetter handles POST /generate/cover-letter.
func (h *Handler) GenerateCoverLetter(c *gin.Context) {
	h.handleJobGenerate(c, h.Service.GenerateCoverLetter)
}

// OptimizeSkills handles POST /generate/skills.
func (h *Handler) OptimizeSkills(c *gin.Context) {
	h.handleJobGenerate(c, h.Service.OptimizeSkills)
}

// TailorExperience handles POST /generate/experience.
func (h *Handler) TailorExperience(c *gin.Context) {
	h.handleJobGenerate(c, h.Service.TailorExperience)
}

func (h *Handler) handleJobGenerate(c *gin.Context, op func(ctx context.Context, userID string, jobID int64, opts Options) (artifacts.Artifact, error)) {
	var req jobGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	artifact, err := op(c.Request.Context(), middleware.UserIDFromContext(c), req.JobID, req.Options)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, artifact)
}

// GenerateCompanyResearch handles POST /generate/company-research.
func (h *Handler) GenerateCompanyResearch(c *gin.Context) {
	var req companyResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	artifact, err := h.Service.GenerateCompanyResearch(c.Request.Context(), middleware.UserIDFromContext(c), req.CompanyName, req.JobID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, artifact)
}

// GenerateSalaryResearch handles POST /generate/salary-research.
func (h *Handler) GenerateSalaryResearch(c *gin.Context) {
	var req salaryResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	artifact, err := h.Service.GenerateSalaryResearch(c.Request.Context(), middleware.UserIDFromContext(c), req.Title, req.Location)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, artifact)
}

// ListArtifacts handles GET /artifacts.
func (h *Handler) ListArtifacts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Service.ListArtifacts(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []artifacts.Artifact{}
	}
	respond.OK(c, gin.H{"artifacts": items})
}

// GetArtifact handles GET /artifacts/:id.
func (h *Handler) GetArtifact(c *gin.Context) {
	artifact, err := h.Service.GetArtifact(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, artifact)
}

// respondError maps workflow errors onto the HTTP error envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	var rateLimited *RateLimitedError
	var aiErr *AIError

	switch {
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.As(err, &rateLimited):
		retryAfterSec := int(math.Ceil(rateLimited.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfterSec))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many generation requests", gin.H{
			"retryAfterSec": retryAfterSec,
		})
	case errors.Is(err, ErrMissingJobID), errors.Is(err, ErrMissingCompanyName), errors.Is(err, ErrMissingTitle):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrJobOwnership):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, jobs.ErrNotFound), errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, artifacts.ErrNoResult):
		respond.Error(c, http.StatusNotFound, "no_result", "no reliable result for this query", nil)
	case errors.Is(err, artifacts.ErrInvalidFormat):
		respond.Error(c, http.StatusBadGateway, "invalid_ai_response", err.Error(), nil)
	case errors.As(err, &aiErr):
		respond.Error(c, http.StatusBadGateway, "ai_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "internal error", nil)
	}
}
