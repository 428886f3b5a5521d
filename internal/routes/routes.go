package routes

import (
	"github.com/gin-gonic/gin"

	"healthsync-server/internal/config"
	"healthsync-server/internal/handlers"
	"healthsync-server/internal/middleware"
	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, store repository.Store, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg)
	userHandler := handlers.NewUserHandler(store)
	appointmentHandler := handlers.NewAppointmentHandler(store)
	prescriptionHandler := handlers.NewPrescriptionHandler(store)
	dashboardHandler := handlers.NewDashboardHandler(store)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		// Account management for the logged-in user
		userRoutes := private.Group("/users")
		{
			userRoutes.PATCH("/profile", userHandler.UpdateProfile)
			userRoutes.PATCH("/password", userHandler.UpdatePassword)
		}

		// Doctor directory, used by patients when booking
		private.GET("/doctors", userHandler.GetDoctors)

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// All authenticated users see their own appointments; the handler filters by role
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			// Patients book for themselves
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			// Doctors book on behalf of a patient (role checked in handler)
			appointmentRoutes.POST("/doctor/create", appointmentHandler.CreateAppointmentForPatient)

			// Merge-patch update; authorization inside the handler
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
		}

		// Prescription routes
		prescriptionRoutes := private.Group("/prescriptions")
		{
			// Doctors issue prescriptions (role checked in handler)
			prescriptionRoutes.POST("", prescriptionHandler.CreatePrescription)

			// Participant doctor or patient lists prescriptions via an appointment
			prescriptionRoutes.GET("/appointment/:id", prescriptionHandler.GetPrescriptionsForAppointment)
		}

		// Role-shaped dashboard aggregate
		private.GET("/me/dashboard", dashboardHandler.GetDashboard)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
