package sweep

import (
	"context"
	"time"

	"habit-quest-api/internal/cache"
	"habit-quest-api/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultInterval is the reference sweep interval.
const DefaultInterval = time.Hour

// Scheduler rate-limits sweep invocations to one per user per interval
// and can run a periodic background pass over all users. The sweep
// itself is idempotent, so a guard miss only costs redundant work.
type Scheduler struct {
	sweeper  *Sweeper
	db       *gorm.DB
	log      *logrus.Logger
	interval time.Duration
	guard    *cache.TTLCache[string, time.Time]
}

// NewScheduler wires a Scheduler around a Sweeper. A non-positive
// interval falls back to DefaultInterval.
func NewScheduler(sweeper *Sweeper, db *gorm.DB, log *logrus.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		sweeper:  sweeper,
		db:       db,
		log:      log,
		interval: interval,
		guard:    cache.New[string, time.Time](),
	}
}

// TrySweep runs the sweep for a user unless one already ran within the
// interval. The bool result reports whether the sweep actually ran.
func (s *Scheduler) TrySweep(userID string) (Report, bool, error) {
	if s.guard.Has(userID) {
		return Report{}, false, nil
	}
	report, err := s.sweeper.SweepUser(userID)
	if err != nil {
		return report, false, err
	}
	s.guard.Set(userID, s.sweeper.clock.Now(), s.interval)
	return report, true, nil
}

// Run sweeps all users once per interval until ctx is cancelled. It is
// meant to be started as a goroutine from main.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepAll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAll()
		}
	}
}

func (s *Scheduler) sweepAll() {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		s.log.WithError(err).Error("sweep: failed to list users")
		return
	}
	for _, u := range users {
		report, ran, err := s.TrySweep(u.ID)
		if err != nil {
			s.log.WithError(err).WithField("user", u.ID).Error("sweep failed")
			continue
		}
		if ran {
			s.log.WithFields(logrus.Fields{
				"user":      u.ID,
				"checked":   report.Checked,
				"penalized": report.Penalized,
				"failed":    report.Failed,
			}).Info("sweep completed")
		}
	}
}
