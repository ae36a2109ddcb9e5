// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/handler"
	"github.com/fleveque/logolist/internal/middleware"
	"github.com/fleveque/logolist/internal/service"
)

// Deps are the services the HTTP layer needs. main builds them; tests can
// build them against a temporary database.
type Deps struct {
	Catalog      *service.CatalogService
	Registration *service.RegistrationService
	Stats        *service.StatsService
	Downloads    *service.DownloadService
	Admin        *service.AdminService
	JWT          *auth.JWTManager
	Breakers     []handler.BreakerReporter
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Dependencies are passed explicitly — no DI container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	companyHandler := handler.NewCompanyHandler(deps.Catalog, deps.Registration, deps.Stats, logger)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, deps.Downloads, logger)
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Stats, deps.Breakers, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	limit := middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	public := api.Group("")
	public.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys), limit)
	{
		public.GET("/companies", companyHandler.List)
		public.POST("/companies", companyHandler.Register)
		public.POST("/companies/:id/download", companyHandler.RecordDownload)
		public.GET("/metrics", companyHandler.Metrics)
		public.GET("/categories", catalogHandler.Categories)
		public.GET("/logos/:slug", catalogHandler.Logo)
		public.GET("/download-proxy", catalogHandler.DownloadProxy)
	}

	api.POST("/admin/login", limit, adminHandler.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(deps.JWT))
	{
		admin.GET("/companies", adminHandler.ListCompanies)
		admin.PUT("/companies/:id", adminHandler.UpdateCompany)
		admin.PATCH("/companies/:id/affiliate", adminHandler.UpdateAffiliate)
		admin.DELETE("/companies/:id", adminHandler.DeleteCompany)
		admin.GET("/history", adminHandler.History)
		admin.GET("/stats", adminHandler.Stats)
	}
}
