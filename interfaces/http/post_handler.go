package http

import (
	"errors"
	"net/http"
	"strings"

	"social-poster/domain/dto"
	"social-poster/domain/model"
	"social-poster/infrastructure/logger"
	"social-poster/usecase"

	"github.com/gin-gonic/gin"
)

type IPostHandler interface {
	PostToPlatforms(ctx *gin.Context)
	PostToSinglePlatform(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
}

func NewPostHandler(postUsecase usecase.IPostUsecase) IPostHandler {
	return &PostHandler{postUsecase: postUsecase}
}

// PostToPlatforms handles POST /api/post. The response is always a full list
// of per-platform results, one per requested id in request order; only a
// malformed request body produces a non-200 status.
func (h *PostHandler) PostToPlatforms(ctx *gin.Context) {
	var req dto.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid post request")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "detail": err.Error()})
		return
	}

	results := h.postUsecase.PostToMany(ctx.Request.Context(), req.Text, req.Platforms, req.MediaURLs, req.ScheduleTime)
	ctx.JSON(http.StatusOK, results)
}

// PostToSinglePlatform handles POST /api/post/:platform with form encoding.
// media_urls is a comma-separated list.
func (h *PostHandler) PostToSinglePlatform(ctx *gin.Context) {
	platform := ctx.Param("platform")

	var form dto.SinglePostForm
	if err := ctx.ShouldBind(&form); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid single post form")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "detail": err.Error()})
		return
	}

	result, err := h.postUsecase.PostToOne(ctx.Request.Context(), platform, form.Text, splitMediaURLs(form.MediaURLs), form.ScheduleTime)
	if err != nil {
		var unsupported model.UnsupportedPlatformError
		if errors.As(err, &unsupported) {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": unsupported.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func splitMediaURLs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
