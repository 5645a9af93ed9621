package handlers

import (
	"errors"
	"net/http"
	"time"

	"habit-quest-api/internal/database"
	"habit-quest-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateDailyRequest represents the request payload for creating a daily
type CreateDailyRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Notes        string                 `json:"notes"`
	Difficulty   models.Difficulty      `json:"difficulty"`
	RepeatPeriod models.RepeatPeriod    `json:"repeatPeriod"`
	EveryN       int                    `json:"everyN"`
	ActiveDays   []int                  `json:"activeDays"`
	StartDate    string                 `json:"startDate"`
	Checklist    []models.ChecklistItem `json:"checklist"`
}

// ToggleDailyRequest carries the new completion state
type ToggleDailyRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ChecklistItemRequest carries the new state of one checklist item
type ChecklistItemRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// validateActivePattern checks the pattern payload against the period
func validateActivePattern(period models.RepeatPeriod, days []int) bool {
	switch period {
	case models.RepeatDaily:
		return true
	case models.RepeatWeekly:
		for _, d := range days {
			if d < 1 || d > 7 {
				return false
			}
		}
		return len(days) > 0
	case models.RepeatMonthly:
		for _, d := range days {
			if d < 1 || d > 31 {
				return false
			}
		}
		return len(days) > 0
	case models.RepeatYearly:
		for _, m := range days {
			if m < 1 || m > 12 {
				return false
			}
		}
		return len(days) > 0
	default:
		return false
	}
}

// CreateDaily handles POST /api/dailies
func CreateDaily(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateDailyRequest
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

	period := req.RepeatPeriod
	if period == "" {
		period = models.RepeatDaily
	}
	if !validateActivePattern(period, req.ActiveDays) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid repeat period or active pattern"})
		return
	}

	everyN := req.EveryN
	if everyN < 1 {
		everyN = 1
	}

	startDate := engineClock.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
			return
		}
		startDate = parsed
	}

	daily := models.Daily{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		Notes:        req.Notes,
		Difficulty:   difficulty,
		RepeatPeriod: period,
		EveryN:       everyN,
		ActiveDays:   req.ActiveDays,
		StartDate:    startDate,
		Checklist:    req.Checklist,
	}
	if err := database.GetDB().Create(&daily).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create daily"})
		return
	}

	c.JSON(http.StatusCreated, daily)
}

// GetDailies handles GET /api/dailies
func GetDailies(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var dailies []models.Daily
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at asc").Find(&dailies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dailies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dailies": dailies, "count": len(dailies)})
}

// GetDailyByID handles GET /api/dailies/:id
func GetDailyByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var daily models.Daily
	err := database.GetDB().First(&daily, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Daily not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily"})
		return
	}

	c.JSON(http.StatusOK, daily)
}

// DeleteDaily handles DELETE /api/dailies/:id
func DeleteDaily(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var daily models.Daily
	err := database.GetDB().First(&daily, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Daily not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily"})
		return
	}

	if err := database.GetDB().Delete(&daily).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete daily"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Daily deleted successfully", "id": daily.ID})
}

// ToggleDaily handles POST /api/dailies/:id/toggle
// Marks the daily complete/incomplete through the completion processor
func ToggleDaily(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req ToggleDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engineProcessor.ToggleDaily(userID, c.Param("id"), *req.Completed)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetDailyChecklistItem handles PATCH /api/dailies/:id/checklist/:itemId
// Checking off the last open item completes the daily
func SetDailyChecklistItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engineProcessor.SetDailyChecklistItem(userID, c.Param("id"), c.Param("itemId"), *req.Completed)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
