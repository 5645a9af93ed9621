package handlers

import (
	"net/http"

	"habit-quest-api/internal/database"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /api/stats
// Returns the authenticated user's experience and coin totals
func GetStats(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	row, err := engineLedger.Get(database.GetDB(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, row)
}
