package http

import (
	"net/http"

	"social-poster/infrastructure/logger"
	"social-poster/usecase"

	"github.com/gin-gonic/gin"
)

type IUploadHandler interface {
	Upload(ctx *gin.Context)
}

type UploadHandler struct {
	uploadUsecase usecase.IUploadUsecase
}

func NewUploadHandler(uploadUsecase usecase.IUploadUsecase) IUploadHandler {
	return &UploadHandler{uploadUsecase: uploadUsecase}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "detail": "missing file field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to open uploaded file")
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "Upload failed: " + err.Error()})
		return
	}
	defer file.Close()

	res, err := h.uploadUsecase.Upload(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to store uploaded file")
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": "Upload failed: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, res)
}
