package http

import (
	"errors"
	"net/http"

	"social-poster/domain/dto"
	"social-poster/domain/model"
	"social-poster/infrastructure/logger"
	"social-poster/usecase"

	"github.com/gin-gonic/gin"
)

type IAuthHandler interface {
	Authenticate(ctx *gin.Context)
}

type AuthHandler struct {
	authUsecase usecase.IAuthUsecase
}

func NewAuthHandler(authUsecase usecase.IAuthUsecase) IAuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Authenticate handles POST /api/auth/:platform. An empty body is valid; the
// adapter then authenticates with whatever credentials were configured via
// the environment.
func (h *AuthHandler) Authenticate(ctx *gin.Context) {
	platform := ctx.Param("platform")

	var req dto.AuthRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "detail": err.Error()})
			return
		}
	}

	creds := model.Credentials{
		AccessToken:      req.AccessToken,
		APIKey:           req.APIKey,
		APISecret:        req.APISecret,
		AdditionalParams: req.AdditionalParams,
	}

	res, err := h.authUsecase.Authenticate(ctx.Request.Context(), platform, creds)
	if err != nil {
		var unsupported model.UnsupportedPlatformError
		if errors.As(err, &unsupported) {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": unsupported.Error()})
			return
		}
		logger.GetLogger().WithField("platform", platform).WithField("error", err).Error("Authentication failed")
		ctx.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication failed: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Success:  true,
		Platform: platform,
		Message:  "Successfully authenticated with " + platform,
		Details:  res.Details,
	})
}
