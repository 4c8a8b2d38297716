package routes

import (
	"claim-management-api/controllers"
	"claim-management-api/middleware"
	"claim-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Claim Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Claims
			claims := protected.Group("/claims")
			{
				// Only lecturers submit and list their own claims
				claims.POST("", middleware.RequireRole(models.RoleLecturer), controllers.SubmitClaim)
				claims.GET("/mine", middleware.RequireRole(models.RoleLecturer), controllers.GetMyClaims)

				// Reviewers see everything and decide
				claims.GET("", middleware.RequireReviewer(), controllers.GetAllClaims)
				claims.POST("/:id/approve", middleware.RequireReviewer(), controllers.ApproveClaim)
				claims.POST("/:id/reject", middleware.RequireReviewer(), controllers.RejectClaim)

				// Authenticated, ownership enforced in the service
				claims.GET("/:id", controllers.GetClaim)
				claims.GET("/:id/row", controllers.GetClaimRow)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("/:id/download", controllers.DownloadClaimDocument)
			}

			// Assistant
			protected.POST("/assistant/ask", controllers.AskAssistant)

			// Live claim status updates (SSE)
			protected.GET("/events", controllers.StreamEvents)
		}
	}
}
