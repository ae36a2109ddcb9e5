package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/service"
)

// CatalogHandler serves the curated catalog pages and the download proxy.
type CatalogHandler struct {
	catalog   *service.CatalogService
	downloads *service.DownloadService
	logger    *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, downloads *service.DownloadService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, downloads: downloads, logger: logger}
}

// Categories lists the curated categories.
// Route: GET /api/v1/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories())
}

// Logo returns one curated logo with related logos from its category.
// Route: GET /api/v1/logos/:slug
func (h *CatalogHandler) Logo(c *gin.Context) {
	detail, err := h.catalog.Logo(c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	// Curated data only changes with a deploy.
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, detail)
}

// DownloadProxy fetches a remote logo and returns it as an attachment,
// optionally resized and flattened onto a background colour.
// Route: GET /api/v1/download-proxy?url=...&filename=stripe.png&size=m&bg=ffffff
func (h *CatalogHandler) DownloadProxy(c *gin.Context) {
	dl, err := h.downloads.Fetch(c.Request.Context(), service.DownloadRequest{
		URL:        c.Query("url"),
		Filename:   c.Query("filename"),
		Size:       model.LogoSize(c.Query("size")),
		Background: c.Query("bg"),
	})
	if err != nil {
		h.logger.Warn("download proxy failed",
			zap.String("url", c.Query("url")),
			zap.Error(err),
		)
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", strconv.Quote(dl.Filename)))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, dl.ContentType, dl.Data)
}
