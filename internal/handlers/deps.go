package handlers

import (
	"errors"
	"net/http"
	"time"

	"habit-quest-api/internal/clock"
	"habit-quest-api/internal/completion"
	"habit-quest-api/internal/config"
	"habit-quest-api/internal/database"
	"habit-quest-api/internal/events"
	"habit-quest-api/internal/realtime"
	"habit-quest-api/internal/stats"
	"habit-quest-api/internal/sweep"

	"github.com/gin-gonic/gin"
)

// Engine dependencies shared by the handlers. Init wires them against
// the global DB connection; tests swap database.DB and call Init again.
var (
	engineBus       *events.Bus
	engineLedger    *stats.Ledger
	engineClock     *clock.Clock
	engineProcessor *completion.Processor
	engineScheduler *sweep.Scheduler
	unbindHub       func()
)

// Init builds the progression engine on top of the current database
// connection and bridges stat events to the websocket hub.
func Init() {
	if unbindHub != nil {
		unbindHub()
	}
	engineBus = events.NewBus()
	engineLedger = stats.NewLedger(engineBus)
	engineClock = clock.New()
	engineProcessor = completion.NewProcessor(database.GetDB(), engineLedger, engineClock)
	engineProcessor.RewardTodos = config.GetEnv("REWARD_TODOS", "") == "true"

	sweeper := sweep.NewSweeper(database.GetDB(), engineClock, config.Logger)
	engineScheduler = sweep.NewScheduler(sweeper, database.GetDB(), config.Logger, time.Hour)

	unbindHub = realtime.GetHub().BindBus(engineBus)
}

// Scheduler exposes the sweep scheduler so main can run the periodic pass.
func Scheduler() *sweep.Scheduler {
	return engineScheduler
}

// respondEngineError maps engine errors onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, completion.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, completion.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
