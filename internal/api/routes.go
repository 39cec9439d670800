package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/domain"
	"alcyxob/neurofeedback-app/internal/service"
)

// RouteDeps are the services the HTTP surface is built on.
type RouteDeps struct {
	JWTSecret      string
	AuthService    service.AuthService
	ProgramService service.ProgramService
	MediaService   service.MediaService
	Metrics        http.Handler // served on /metrics when set
	MaxPageLimit   int
}

func SetupRoutes(router *gin.Engine, deps RouteDeps) {
	authHandler := NewAuthHandler(deps.AuthService)
	programHandler := NewProgramHandler(deps.ProgramService, deps.MaxPageLimit)
	mediaHandler := NewMediaHandler(deps.MediaService)

	authMiddleware := AuthMiddleware(deps.JWTSecret)
	creatorOnly := RoleMiddleware(domain.RoleCreator)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		// --- Programs ---
		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", creatorOnly, programHandler.CreateProgram)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.PUT("/:programId", creatorOnly, programHandler.UpdateProgram)

			// Any authenticated user may buy, creators included.
			programGroup.POST("/:programId/purchase", programHandler.PurchaseProgram)
			programGroup.POST("/:programId/complete", programHandler.CompleteProgram)

			programGroup.POST("/:programId/media/upload-url", creatorOnly, mediaHandler.RequestUploadURL)
			programGroup.GET("/:programId/media/url", mediaHandler.GetDownloadURL)
			programGroup.DELETE("/:programId/media", creatorOnly, mediaHandler.DeleteMaterial)
		}

		protected.GET("/creator/programs", creatorOnly, programHandler.GetCreatorPrograms)

		// --- Enrollments of the caller ---
		protected.GET("/me/programs", programHandler.GetUserPrograms)
		protected.GET("/me/programs/:programId", programHandler.GetUserProgram)
	}
}
