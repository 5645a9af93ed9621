package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunSweep handles POST /api/sweep
// Triggers the overdue sweep for the authenticated user. Invocations
// within the sweep interval are answered from the guard without
// re-running the sweep; the sweep itself is idempotent either way.
func RunSweep(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	report, ran, err := engineScheduler.TrySweep(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ran":       ran,
		"checked":   report.Checked,
		"penalized": report.Penalized,
		"failed":    report.Failed,
	})
}
