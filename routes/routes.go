package routes

import (
	"breeder-awards-api/controllers"
	"breeder-awards-api/middleware"
	"breeder-awards-api/models"

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
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Breeder Awards API is running",
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

			// Species name directory
			protected.GET("/species", controllers.GetSpeciesNames)

			// Member standing (levels, tallies, awards)
			protected.GET("/standing", controllers.GetStanding)
			protected.GET("/standing/:program/level", controllers.GetProgramLevel)

			// Notifications feed
			protected.GET("/notifications", controllers.GetNotifications)

			// Submissions (owner scope)
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("", controllers.CreateSubmission)
				submissions.PUT("/:id", controllers.UpdateSubmission)
				submissions.POST("/:id/submit", controllers.SubmitSubmission)
				submissions.DELETE("/:id", controllers.DeleteSubmission)
			}

			// Admin workflow
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/submissions", controllers.GetAdminSubmissionQueue)
				admin.POST("/submissions/:id/witness/confirm", controllers.ConfirmWitness)
				admin.POST("/submissions/:id/witness/decline", controllers.DeclineWitness)
				admin.POST("/submissions/:id/request-changes", controllers.RequestChanges)
				admin.POST("/submissions/:id/approve", controllers.ApproveSubmission)
				admin.DELETE("/submissions/:id", controllers.DeleteSubmission)
				admin.GET("/members", controllers.GetMembers)
			}
		}
	}
}
