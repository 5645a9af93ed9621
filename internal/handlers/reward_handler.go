package handlers

import (
	"errors"
	"net/http"

	"habit-quest-api/internal/database"
	"habit-quest-api/internal/events"
	"habit-quest-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateRewardRequest represents the request payload for creating a reward
type CreateRewardRequest struct {
	Title string  `json:"title" binding:"required"`
	Notes string  `json:"notes"`
	Cost  float64 `json:"cost" binding:"required,gt=0"`
}

// CreateReward handles POST /api/rewards
func CreateReward(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reward := models.Reward{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  req.Title,
		Notes:  req.Notes,
		Cost:   req.Cost,
	}
	if err := database.GetDB().Create(&reward).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reward"})
		return
	}

	c.JSON(http.StatusCreated, reward)
}

// GetRewards handles GET /api/rewards
func GetRewards(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var rewards []models.Reward
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at asc").Find(&rewards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards, "count": len(rewards)})
}

// GetRewardByID handles GET /api/rewards/:id
func GetRewardByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var reward models.Reward
	err := database.GetDB().First(&reward, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reward"})
		return
	}

	c.JSON(http.StatusOK, reward)
}

// DeleteReward handles DELETE /api/rewards/:id
func DeleteReward(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var reward models.Reward
	err := database.GetDB().First(&reward, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reward"})
		return
	}

	if err := database.GetDB().Delete(&reward).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reward"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward deleted successfully", "id": reward.ID})
}

// RedeemReward handles POST /api/rewards/:id/redeem
// Debits the reward cost from the user's coin balance
func RedeemReward(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	db := database.GetDB()

	var reward models.Reward
	err := db.First(&reward, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reward"})
		return
	}

	balance, err := engineLedger.Get(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	if balance.Coins < reward.Cost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough coins"})
		return
	}

	var change events.StatChange
	err = db.Transaction(func(tx *gorm.DB) error {
		change, err = engineLedger.DecrementCoinsFloorZero(tx, userID, reward.Cost)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem reward"})
		return
	}
	engineLedger.Emit(change)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward redeemed",
		"id":      reward.ID,
		"cost":    reward.Cost,
		"coins":   change.NewValue,
	})
}
