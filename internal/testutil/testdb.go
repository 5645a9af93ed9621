package testutil

import (
	"habit-quest-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is its own database; pin the pool to
	// one connection so all test traffic sees the same data.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Daily{},
		&models.Todo{},
		&models.CompletionRecord{},
		&models.UserStats{},
		&models.Reward{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
