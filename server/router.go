package server

import (
	"time"

	httpHandler "social-poster/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	metaHandler httpHandler.IMetaHandler,
	postHandler httpHandler.IPostHandler,
	authHandler httpHandler.IAuthHandler,
	uploadHandler httpHandler.IUploadHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/", metaHandler.Root)
	router.GET("/health", metaHandler.Health)

	api := router.Group("api")
	api.GET("/platforms", metaHandler.GetPlatforms)
	api.POST("/post", postHandler.PostToPlatforms)
	api.POST("/post/:platform", postHandler.PostToSinglePlatform)
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/auth/:platform", authHandler.Authenticate)

	return router
}
