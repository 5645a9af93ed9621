package database

import (
	"habit-quest-api/internal/config"
	"habit-quest-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations
func InitDB() {
	var err error

	// Open SQLite database file (will be created if it doesn't exist initially)
	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	path := config.GetEnv("DB_PATH", "habit-quest.db")
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		config.Logger.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Daily{},
		&models.Todo{},
		&models.CompletionRecord{},
		&models.UserStats{},
		&models.Reward{},
	)

	if err != nil {
		config.Logger.Fatal("Failed to migrate database: ", err)
	}

	config.Logger.Info("Database connected and migrated successfully")
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
