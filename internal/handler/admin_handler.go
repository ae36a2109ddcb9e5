package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/middleware"
	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
)

// BreakerReporter exposes a provider's circuit breaker state.
// *provider.Adapter implements it.
type BreakerReporter interface {
	Name() string
	State() string
}

// AdminHandler handles the curation endpoints.
type AdminHandler struct {
	admin    *service.AdminService
	stats    *service.StatsService
	breakers []BreakerReporter
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, stats *service.StatsService, breakers []BreakerReporter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		stats:    stats,
		breakers: breakers,
		logger:   logger,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a session token.
// Route: POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	session, err := h.admin.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("admin login failed", zap.String("username", req.Username), zap.Error(err))
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("admin logged in", zap.String("username", req.Username))
	c.JSON(http.StatusOK, session)
}

// ListCompanies returns a page of stored companies, newest first.
// Route: GET /api/v1/admin/companies?page=1&limit=10&search=stripe
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.admin.ListCompanies(c.Request.Context(), storage.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateCompany replaces the editable fields of a company.
// Route: PUT /api/v1/admin/companies/:id
func (h *AdminHandler) UpdateCompany(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var upd service.CompanyUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	company, err := h.admin.UpdateCompany(c.Request.Context(), middleware.AdminUsername(c), id, upd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// UpdateAffiliate sets or clears a company's affiliate link.
// Route: PATCH /api/v1/admin/companies/:id/affiliate
func (h *AdminHandler) UpdateAffiliate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req service.AffiliateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	company, err := h.admin.UpdateAffiliate(c.Request.Context(), middleware.AdminUsername(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// DeleteCompany removes a company.
// Route: DELETE /api/v1/admin/companies/:id
func (h *AdminHandler) DeleteCompany(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteCompany(c.Request.Context(), middleware.AdminUsername(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// History returns the latest change log entries.
// Route: GET /api/v1/admin/history
func (h *AdminHandler) History(c *gin.Context) {
	entries, err := h.admin.History(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Stats returns the counters summary plus each provider's breaker state.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	m, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	providers := make(map[string]string, len(h.breakers))
	for _, b := range h.breakers {
		providers[b.Name()] = b.State()
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":   m,
		"providers": providers,
	})
}
