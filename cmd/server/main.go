package main

import (
	"context"

	"habit-quest-api/internal/config"
	"habit-quest-api/internal/database"
	"habit-quest-api/internal/handlers"
	"habit-quest-api/internal/routes"
)

func main() {
	config.LoadEnv()
	config.InitLogger()

	// Init database
	database.InitDB()

	// Wire the progression engine (processor, ledger, sweep scheduler)
	handlers.Init()

	// Hourly overdue sweep across all users
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handlers.Scheduler().Run(ctx)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := ":" + config.GetEnv("PORT", "8008")
	config.Logger.Infof("Server starting on port %s", port)

	if err := ginRoutes.Run(port); err != nil {
		config.Logger.Fatal("Failed to start server: ", err)
	}
}
