package handlers

import (
	"errors"
	"net/http"

	"habit-quest-api/internal/database"
	"habit-quest-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateHabitRequest represents the request payload for creating a habit
type CreateHabitRequest struct {
	Title       string            `json:"title" binding:"required"`
	Notes       string            `json:"notes"`
	Difficulty  models.Difficulty `json:"difficulty"`
	Up          *bool             `json:"up"`
	Down        *bool             `json:"down"`
	ResetPeriod string            `json:"resetPeriod"`
}

// ScoreHabitRequest selects the habit nature being ticked
type ScoreHabitRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// CreateHabit handles POST /api/habits
func CreateHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	if !difficulty.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid difficulty"})
		return
	}

	// A habit needs at least one nature; default to good-only.
	up, down := true, false
	if req.Up != nil {
		up = *req.Up
	}
	if req.Down != nil {
		down = *req.Down
	}
	if !up && !down {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Habit must have at least one of up/down"})
		return
	}

	resetPeriod := req.ResetPeriod
	if resetPeriod == "" {
		resetPeriod = "daily"
	}

	habit := models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Notes:       req.Notes,
		Difficulty:  difficulty,
		Up:          up,
		Down:        down,
		ResetPeriod: resetPeriod,
	}
	if err := database.GetDB().Create(&habit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create habit"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// GetHabits handles GET /api/habits
func GetHabits(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var habits []models.Habit
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at asc").Find(&habits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": habits, "count": len(habits)})
}

// GetHabitByID handles GET /api/habits/:id
func GetHabitByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var habit models.Habit
	err := database.GetDB().First(&habit, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habit"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit handles DELETE /api/habits/:id
func DeleteHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var habit models.Habit
	err := database.GetDB().First(&habit, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habit"})
		return
	}

	if err := database.GetDB().Delete(&habit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Habit deleted successfully", "id": habit.ID})
}

// ScoreHabit handles POST /api/habits/:id/score
// Applies a good or bad tick through the completion processor
func ScoreHabit(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req ScoreHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engineProcessor.ScoreHabit(userID, c.Param("id"), req.Direction == "up")
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
