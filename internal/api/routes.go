package api

import (
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/tracker"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	exportService service.ExportService,
	workoutRepo repository.WorkoutRepository,
	stopwatches *tracker.StopwatchRegistry,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
	rateLimiter RequestRateLimiter,
	authRequestsPerMinute int,
) {
	authHandler := NewAuthHandler(authService)
	pageHandler := NewPageHandler(authService, workoutRepo, stopwatches, metricsManager)
	timerHandler := NewTimerHandler(stopwatches, workoutRepo)
	exportHandler := NewExportHandler(exportService)

	authMiddleware := AuthMiddleware(authService)

	router.Use(RequestLogger(), RequestMetrics(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authLimit := RateLimit(rateLimiter, "auth", authRequestsPerMinute)
			authGroup.POST("/register", authLimit, authHandler.Register)
			authGroup.POST("/login", authLimit, authHandler.Login)
			authGroup.POST("/logout", pageHandler.SignOut)
			authGroup.POST("/refresh", authMiddleware, authHandler.Refresh)
		}

		// The page works with and without a session: no session renders the sign-in view.
		apiV1.GET("/page", pageHandler.GetPage)
		apiV1.POST("/workouts", pageHandler.CreateWorkout)
		apiV1.PATCH("/workouts/:id/complete", pageHandler.ToggleComplete)
		apiV1.PUT("/workouts/:id", pageHandler.UpdateWorkout)
		apiV1.DELETE("/workouts/:id", pageHandler.DeleteWorkout)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/workouts/export", exportHandler.ExportWorkouts)

		// --- Workout card stopwatches ---
		protected.GET("/workouts/:id/timer", timerHandler.GetTimer)
		protected.POST("/workouts/:id/timer/toggle", timerHandler.ToggleTimer)
		protected.POST("/workouts/:id/timer/reset", timerHandler.ResetTimer)
	}
}
