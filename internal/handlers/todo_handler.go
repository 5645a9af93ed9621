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

// CreateTodoRequest represents the request payload for creating a todo
type CreateTodoRequest struct {
	Title      string                 `json:"title" binding:"required"`
	Notes      string                 `json:"notes"`
	Difficulty models.Difficulty      `json:"difficulty"`
	DueDate    string                 `json:"dueDate"`
	Checklist  []models.ChecklistItem `json:"checklist"`
}

// ToggleTodoRequest carries the new completion state
type ToggleTodoRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func parseDueDate(dateStr string) (*time.Time, bool) {
	if dateStr == "" {
		return nil, true
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// CreateTodo handles POST /api/todos
func CreateTodo(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req CreateTodoRequest
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

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueDate, expected YYYY-MM-DD or RFC3339"})
		return
	}

	todo := models.Todo{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      req.Title,
		Notes:      req.Notes,
		Difficulty: difficulty,
		DueDate:    dueDate,
		Checklist:  req.Checklist,
	}
	if err := database.GetDB().Create(&todo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// GetTodos handles GET /api/todos
func GetTodos(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var todos []models.Todo
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at asc").Find(&todos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos, "count": len(todos)})
}

// GetTodoByID handles GET /api/todos/:id
func GetTodoByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var todo models.Todo
	err := database.GetDB().First(&todo, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todo"})
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/:id
func DeleteTodo(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var todo models.Todo
	err := database.GetDB().First(&todo, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todo"})
		return
	}

	if err := database.GetDB().Delete(&todo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully", "id": todo.ID})
}

// ToggleTodo handles POST /api/todos/:id/toggle
// Marks the todo complete/incomplete through the completion processor
func ToggleTodo(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	var req ToggleTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engineProcessor.ToggleTodo(userID, c.Param("id"), *req.Completed)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetTodoChecklistItem handles PATCH /api/todos/:id/checklist/:itemId
// Checking off the last open item completes the todo
func SetTodoChecklistItem(c *gin.Context) {
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

	result, err := engineProcessor.SetTodoChecklistItem(userID, c.Param("id"), c.Param("itemId"), *req.Completed)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
