package routes

import (
	"habit-quest-api/internal/handlers"
	"habit-quest-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Habit Quest API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Habit endpoints
		protectedRoutes.GET("/habits", handlers.GetHabits)
		protectedRoutes.POST("/habits", handlers.CreateHabit)
		protectedRoutes.GET("/habits/:id", handlers.GetHabitByID)
		protectedRoutes.DELETE("/habits/:id", handlers.DeleteHabit)
		protectedRoutes.POST("/habits/:id/score", handlers.ScoreHabit)

		// Daily endpoints
		protectedRoutes.GET("/dailies", handlers.GetDailies)
		protectedRoutes.POST("/dailies", handlers.CreateDaily)
		protectedRoutes.GET("/dailies/:id", handlers.GetDailyByID)
		protectedRoutes.DELETE("/dailies/:id", handlers.DeleteDaily)
		protectedRoutes.POST("/dailies/:id/toggle", handlers.ToggleDaily)
		protectedRoutes.PATCH("/dailies/:id/checklist/:itemId", handlers.SetDailyChecklistItem)

		// Todo endpoints
		protectedRoutes.GET("/todos", handlers.GetTodos)
		protectedRoutes.POST("/todos", handlers.CreateTodo)
		protectedRoutes.GET("/todos/:id", handlers.GetTodoByID)
		protectedRoutes.DELETE("/todos/:id", handlers.DeleteTodo)
		protectedRoutes.POST("/todos/:id/toggle", handlers.ToggleTodo)
		protectedRoutes.PATCH("/todos/:id/checklist/:itemId", handlers.SetTodoChecklistItem)

		// Reward endpoints
		protectedRoutes.GET("/rewards", handlers.GetRewards)
		protectedRoutes.POST("/rewards", handlers.CreateReward)
		protectedRoutes.GET("/rewards/:id", handlers.GetRewardByID)
		protectedRoutes.DELETE("/rewards/:id", handlers.DeleteReward)
		protectedRoutes.POST("/rewards/:id/redeem", handlers.RedeemReward)

		// Stats and sweep
		protectedRoutes.GET("/stats", handlers.GetStats)
		protectedRoutes.POST("/sweep", handlers.RunSweep)

		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)

		// WebSocket stat stream
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
