package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fittrack/internal/config"
	"fittrack/internal/oauth"
	"fittrack/internal/service"
	"fittrack/internal/token"
)

// SetupRoutes wires the HTTP surface onto the router.
func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	sessions *SessionManager,
	authService service.AuthService,
	userService service.UserService,
	workoutService service.WorkoutService,
	exportService service.ExportService,
	google oauth.Provider,
) {
	router.Use(RequestID(), ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tokens := token.NewCodec(cfg.Security.SecretKey)
	authHandler := NewAuthHandler(authService, sessions, google, cfg.OAuth.FrontendURL)
	userHandler := NewUserHandler(userService)
	workoutHandler := NewWorkoutHandler(workoutService, exportService, tokens)

	authMiddleware := AuthMiddleware(sessions)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/google/login", authHandler.GoogleLogin)
		api.GET("/google/callback", authHandler.GoogleCallback)

		protected := api.Group("")
		protected.Use(authMiddleware)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", userHandler.Me)
			protected.GET("/profile", userHandler.GetProfile)
			protected.POST("/profile", userHandler.UpdateProfile)

			protected.GET("/workouts", workoutHandler.ListWorkouts)
			protected.GET("/workouts/:id", workoutHandler.GetWorkout)
			protected.POST("/workouts", workoutHandler.CreateWorkout)
			protected.DELETE("/workouts/:id", workoutHandler.DeleteWorkout)

			protected.POST("/exercises/:workoutId/add", workoutHandler.AddExercise)
			protected.DELETE("/exercises/:exerciseId", workoutHandler.DeleteExercise)
			protected.DELETE("/delete_exercise/:token", workoutHandler.DeleteExerciseByToken)

			protected.GET("/catalog", workoutHandler.Catalog)
			protected.GET("/stats", workoutHandler.Stats)
			protected.POST("/quickstart/:level", workoutHandler.Quickstart)
			protected.GET("/export/csv", workoutHandler.ExportCSV)

			protected.GET("/admin/users", userHandler.AdminListUsers)
		}
	}
}
