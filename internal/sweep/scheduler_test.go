package sweep

import (
	"testing"
	"time"

	"habit-quest-api/internal/clock"
	"habit-quest-api/internal/models"
	"habit-quest-api/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTrySweepGuardsInterval(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := clock.New()
	c.Now = func() time.Time { return now }

	require.NoError(t, db.Create(&models.User{ID: "u-1", Username: "alice", Password: "x"}).Error)
	habit := models.Habit{
		ID: "h-1", UserID: "u-1", Title: "Stretch", Up: true,
		Model: gorm.Model{CreatedAt: now.AddDate(0, 0, -3)},
	}
	require.NoError(t, db.Create(&habit).Error)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	sched := NewScheduler(NewSweeper(db, c, log), db, log, time.Hour)

	report, ran, err := sched.TrySweep("u-1")
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, 1, report.Penalized)

	// Within the interval the guard short-circuits.
	_, ran, err = sched.TrySweep("u-1")
	require.NoError(t, err)
	require.False(t, ran)

	// The guard stamp comes from the injected clock, not the wall clock.
	stamp, ok := sched.guard.Get("u-1")
	require.True(t, ok)
	require.Equal(t, now, stamp)
}

func TestTrySweepFailureDoesNotArmGuard(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	sched := NewScheduler(NewSweeper(db, clock.New(), log), db, log, time.Hour)

	_, ran, err := sched.TrySweep("nobody")
	require.Error(t, err)
	require.False(t, ran)

	// A retry is allowed immediately after a failure.
	_, ran, err = sched.TrySweep("nobody")
	require.Error(t, err)
	require.False(t, ran)
}
