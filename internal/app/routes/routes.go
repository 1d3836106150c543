package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/openclep/clepfinder/internal/app/controllers"
	"github.com/openclep/clepfinder/internal/middleware"
	"github.com/openclep/clepfinder/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	institutionController *controllers.InstitutionController,
	feedbackController *controllers.FeedbackController,
	chatController *controllers.ChatController,
	portalController *controllers.PortalController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	institutions := v1.Group("/institutions")
	{
		institutions.GET("", institutionController.ListInstitutions)
		institutions.POST("/search", institutionController.SearchInstitutions)
		institutions.GET("/:id", institutionController.GetInstitutionByID)
	}

	exams := v1.Group("/exams")
	{
		exams.GET("", institutionController.ListExams)
		exams.GET("/:name/stats", institutionController.GetExamStats)
	}

	v1.GET("/map/markers", institutionController.GetMapMarkers)
	v1.POST("/chat", chatController.Ask)

	feedback := v1.Group("/feedback")
	{
		feedback.POST("/votes", feedbackController.Vote)
		feedback.GET("/exams/:name", feedbackController.GetExamCounts)
	}

	v1.POST("/auth/login", authController.Login)

	// --- Institution portal routes ---
	portal := v1.Group("/portal")
	portal.Use(authMiddleware.JWTAuth())
	portal.Use(authMiddleware.RoleRequired(auth.RoleInstitution))
	{
		portal.GET("/overrides", portalController.GetOverrides)
		portal.PUT("/overrides/:exam", portalController.UpsertOverride)
		portal.POST("/overrides/batch", portalController.ApplyBatch)
		portal.POST("/overrides/init", portalController.InitializeDefaults)
		portal.POST("/chat/intent", chatController.ExtractIntent)
		portal.POST("/chat/confirm", chatController.ConfirmIntent)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())
	admin.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		admin.DELETE("/institutions/:diCode/overrides", portalController.DeleteInstitutionOverrides)
		admin.POST("/cache/clear", portalController.ClearCache)
	}
}
