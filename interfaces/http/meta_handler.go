package http

import (
	"net/http"
	"time"

	"social-poster/domain/dto"
	"social-poster/domain/model"

	"github.com/gin-gonic/gin"
)

type IMetaHandler interface {
	Root(ctx *gin.Context)
	Health(ctx *gin.Context)
	GetPlatforms(ctx *gin.Context)
}

type MetaHandler struct {
	version   string
	available func() []string
}

// NewMetaHandler builds the service-info handler. available reports which
// platform ids currently have their minimum credential set configured.
func NewMetaHandler(version string, available func() []string) IMetaHandler {
	return &MetaHandler{version: version, available: available}
}

func (h *MetaHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ServiceInfo{
		Message:            "Multi-Platform Social Media Posting API",
		Version:            h.version,
		SupportedPlatforms: model.SupportedPlatforms,
		Endpoints: map[string]string{
			"post":        "/api/post",
			"post_single": "/api/post/{platform}",
			"upload":      "/api/upload",
			"auth":        "/api/auth/{platform}",
			"platforms":   "/api/platforms",
			"health":      "/health",
		},
	})
}

func (h *MetaHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:             "healthy",
		Timestamp:          time.Now().Format(time.RFC3339),
		PlatformsAvailable: h.available(),
	})
}

func (h *MetaHandler) GetPlatforms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"platforms": model.PlatformCatalog})
}
