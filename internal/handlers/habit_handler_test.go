package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"habit-quest-api/internal/auth"
	"habit-quest-api/internal/database"
	"habit-quest-api/internal/middleware"
	"habit-quest-api/internal/models"
	"habit-quest-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupUserRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	Init()

	user := models.User{ID: "u-1", Username: "alice", Password: "x", Timezone: "UTC"}
	require.NoError(t, db.Create(&user).Error)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.GET("/habits", GetHabits)
	api.POST("/habits", CreateHabit)
	api.GET("/habits/:id", GetHabitByID)
	api.DELETE("/habits/:id", DeleteHabit)
	api.POST("/habits/:id/score", ScoreHabit)
	api.GET("/stats", GetStats)
	api.POST("/rewards", CreateReward)
	api.POST("/rewards/:id/redeem", RedeemReward)
	api.POST("/sweep", RunSweep)

	token, err := auth.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	return r, token
}

func doJSON(t *testing.T, r *gin.Engine, token, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndScoreHabit(t *testing.T) {
	r, token := setupUserRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{
		"title":      "Morning stretch",
		"difficulty": "easy",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))
	require.True(t, habit.Up)
	require.False(t, habit.Down)

	w = doJSON(t, r, token, http.MethodPost, "/api/habits/"+habit.ID+"/score", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, float64(1), result["levelAfter"])

	// Stats reflect the credit
	w = doJSON(t, r, token, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.UserStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 2.00, stats.Experience)
	require.Equal(t, 1.00, stats.Coins)
}

func TestScoreHabitWrongNatureRejected(t *testing.T) {
	r, token := setupUserRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{
		"title": "Read",
		"up":    true,
		"down":  false,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))

	w = doJSON(t, r, token, http.MethodPost, "/api/habits/"+habit.ID+"/score", map[string]string{"direction": "down"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreHabitNotFound(t *testing.T) {
	r, token := setupUserRouter(t)
	w := doJSON(t, r, token, http.MethodPost, "/api/habits/missing/score", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateHabitRequiresNature(t *testing.T) {
	r, token := setupUserRouter(t)
	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{
		"title": "Neither",
		"up":    false,
		"down":  false,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteHabit(t *testing.T) {
	r, token := setupUserRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{"title": "Temp"})
	require.Equal(t, http.StatusCreated, w.Code)
	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))

	w = doJSON(t, r, token, http.MethodDelete, "/api/habits/"+habit.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, token, http.MethodDelete, "/api/habits/"+habit.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHabitByID(t *testing.T) {
	r, token := setupUserRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{"title": "Stretch"})
	require.Equal(t, http.StatusCreated, w.Code)
	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))

	w = doJSON(t, r, token, http.MethodGet, "/api/habits/"+habit.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Equal(t, habit.ID, fetched.ID)
	require.Equal(t, "Stretch", fetched.Title)

	w = doJSON(t, r, token, http.MethodGet, "/api/habits/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedeemRewardFlow(t *testing.T) {
	r, token := setupUserRouter(t)

	// Earn some coins first
	w := doJSON(t, r, token, http.MethodPost, "/api/habits", map[string]any{"title": "Chores", "difficulty": "hard"})
	require.Equal(t, http.StatusCreated, w.Code)
	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))
	w = doJSON(t, r, token, http.MethodPost, "/api/habits/"+habit.ID+"/score", map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, w.Code) // 1.60 coins

	w = doJSON(t, r, token, http.MethodPost, "/api/rewards", map[string]any{"title": "Ice cream", "cost": 1.5})
	require.Equal(t, http.StatusCreated, w.Code)
	var reward models.Reward
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reward))

	w = doJSON(t, r, token, http.MethodPost, "/api/rewards/"+reward.ID+"/redeem", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Second redeem: balance 0.10, not enough
	w = doJSON(t, r, token, http.MethodPost, "/api/rewards/"+reward.ID+"/redeem", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSweepEndpoint(t *testing.T) {
	r, token := setupUserRouter(t)

	w := doJSON(t, r, token, http.MethodPost, "/api/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["ran"])

	// Guarded within the interval
	w = doJSON(t, r, token, http.MethodPost, "/api/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, false, resp["ran"])
}

func TestHabitsRequireAuth(t *testing.T) {
	r, _ := setupUserRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/habits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
