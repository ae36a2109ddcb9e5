package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/service"
)

// CompanyHandler serves the public listing, search and counter endpoints.
type CompanyHandler struct {
	catalog      *service.CatalogService
	registration *service.RegistrationService
	stats        *service.StatsService
	logger       *zap.Logger
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(
	catalog *service.CatalogService,
	registration *service.RegistrationService,
	stats *service.StatsService,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		catalog:      catalog,
		registration: registration,
		stats:        stats,
		logger:       logger,
	}
}

// List returns a curated category, the top companies or search results.
// It never fails: unavailable sources just contribute nothing.
// Route: GET /api/v1/companies?category=fintech&query=stripe (q is an alias of query)
func (h *CompanyHandler) List(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	c.JSON(http.StatusOK, h.catalog.List(c.Request.Context(), c.Query("category"), query))
}

// Register persists an external record the user interacted with.
// Route: POST /api/v1/companies {name, domain, logoUrl}
func (h *CompanyHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	rec, err := h.registration.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RecordDownload increments the download counter of a stored company.
// Route: POST /api/v1/companies/:id/download
func (h *CompanyHandler) RecordDownload(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.stats.RecordDownload(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Metrics returns the public counters summary.
// Route: GET /api/v1/metrics
func (h *CompanyHandler) Metrics(c *gin.Context) {
	m, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
