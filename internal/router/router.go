package router

import (
	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/api"
	"github.com/recipehub/backend/internal/middleware"
)

// MaxUploadSize caps multipart bodies at 10 MiB.
const MaxUploadSize = 10 << 20

// SetupRouter configures the application routes
func SetupRouter(recipeHandler *api.RecipeHandler, rateLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.MaxMultipartMemory = MaxUploadSize

	router.GET("/health", api.HealthCheck)

	// API routes
	apiGroup := router.Group("/api")
	if rateLimiter != nil {
		apiGroup.Use(rateLimiter.Middleware())
	}
	recipeHandler.RegisterRoutes(apiGroup)

	return router
}
