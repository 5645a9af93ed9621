package sweep

import (
	"errors"
	"fmt"
	"time"

	"habit-quest-api/internal/clock"
	"habit-quest-api/internal/models"
	"habit-quest-api/internal/valuelevel"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Sweeper walks every active task of a user and applies value-level
// penalties for missed obligation windows. Habits and dailies are
// penalized at most once per local calendar day, guarded by
// last_due_check; todos are re-evaluated on every sweep because their
// penalty tracks elapsed lateness. One failing task never blocks the
// rest of the sweep.
type Sweeper struct {
	db    *gorm.DB
	clock *clock.Clock
	log   *logrus.Logger
}

// NewSweeper wires a Sweeper against the given store and clock.
func NewSweeper(db *gorm.DB, c *clock.Clock, log *logrus.Logger) *Sweeper {
	return &Sweeper{db: db, clock: c, log: log}
}

// Report summarizes one sweep invocation.
type Report struct {
	Checked   int `json:"checked"`
	Penalized int `json:"penalized"`
	Failed    int `json:"failed"`
}

// SweepUser runs the overdue sweep for one user. It returns an error
// only when the user or task lists cannot be loaded; per-task failures
// are logged and counted in the report.
func (s *Sweeper) SweepUser(userID string) (Report, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Report{}, fmt.Errorf("user %s not found", userID)
		}
		return Report{}, fmt.Errorf("fetch user: %w", err)
	}
	loc := s.clock.Location(user.Timezone)
	now := s.clock.Now()

	var report Report

	var habits []models.Habit
	if err := s.db.Find(&habits, "user_id = ?", userID).Error; err != nil {
		return report, fmt.Errorf("list habits: %w", err)
	}
	for i := range habits {
		report.Checked++
		penalized, err := s.sweepHabit(&habits[i], now, loc)
		if err != nil {
			report.Failed++
			s.log.WithFields(logrus.Fields{"user": userID, "habit": habits[i].ID}).
				WithError(err).Warn("habit sweep failed")
			continue
		}
		if penalized {
			report.Penalized++
		}
	}

	var dailies []models.Daily
	if err := s.db.Find(&dailies, "user_id = ?", userID).Error; err != nil {
		return report, fmt.Errorf("list dailies: %w", err)
	}
	for i := range dailies {
		report.Checked++
		penalized, err := s.sweepDaily(&dailies[i], now, loc)
		if err != nil {
			report.Failed++
			s.log.WithFields(logrus.Fields{"user": userID, "daily": dailies[i].ID}).
				WithError(err).Warn("daily sweep failed")
			continue
		}
		if penalized {
			report.Penalized++
		}
	}

	var todos []models.Todo
	if err := s.db.Find(&todos, "user_id = ? AND completed = ?", userID, false).Error; err != nil {
		return report, fmt.Errorf("list todos: %w", err)
	}
	for i := range todos {
		report.Checked++
		penalized, err := s.sweepTodo(&todos[i], now, loc)
		if err != nil {
			report.Failed++
			s.log.WithFields(logrus.Fields{"user": userID, "todo": todos[i].ID}).
				WithError(err).Warn("todo sweep failed")
			continue
		}
		if penalized {
			report.Penalized++
		}
	}

	return report, nil
}

// checkedToday reports whether the task was already visited by a sweep
// during now's calendar day.
func (s *Sweeper) checkedToday(task models.Scorable, now time.Time, loc *time.Location) bool {
	last := task.DueCheckedAt()
	return last != nil && s.clock.SameDay(*last, now, loc)
}

// satisfiedToday reports whether a completion record exists for the
// task within now's calendar day.
func (s *Sweeper) satisfiedToday(taskID string, now time.Time, loc *time.Location) (bool, error) {
	var count int64
	err := s.db.Model(&models.CompletionRecord{}).
		Where("task_id = ? AND completed_at >= ? AND completed_at <= ?",
			taskID, s.clock.StartOfDay(now, loc), s.clock.EndOfDay(now, loc)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count completion records: %w", err)
	}
	return count > 0, nil
}

// sweepHabit applies the daily habit penalty. A habit owes a good tick
// every day once the day after its creation has arrived; bad-only
// habits carry no obligation.
func (s *Sweeper) sweepHabit(habit *models.Habit, now time.Time, loc *time.Location) (bool, error) {
	if s.checkedToday(habit, now, loc) {
		return false, nil
	}

	due := habit.Up && s.clock.StartOfDay(now, loc).After(s.clock.StartOfDay(habit.CreatedAt, loc))
	penalize := false
	if due {
		satisfied, err := s.satisfiedToday(habit.ID, now, loc)
		if err != nil {
			return false, err
		}
		penalize = !satisfied
	}

	updates := map[string]any{"last_due_check": now}
	if penalize {
		updates["value_level"] = valuelevel.Decrease(habit.ValueLevel, 1)
	}
	if err := s.db.Model(habit).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("update habit: %w", err)
	}
	return penalize, nil
}

// dailyDueToday reports whether a daily's obligation window includes
// now's calendar day.
func (s *Sweeper) dailyDueToday(daily *models.Daily, now time.Time, loc *time.Location) bool {
	if !daily.StartDate.IsZero() && s.clock.StartOfDay(now, loc).Before(s.clock.StartOfDay(daily.StartDate, loc)) {
		return false
	}
	switch daily.RepeatPeriod {
	case models.RepeatDaily:
		every := daily.EveryN
		if every <= 1 {
			return true
		}
		if daily.StartDate.IsZero() {
			return true
		}
		days := int(s.clock.StartOfDay(now, loc).Sub(s.clock.StartOfDay(daily.StartDate, loc)).Hours() / 24)
		return days%every == 0
	case models.RepeatWeekly:
		return containsInt(daily.ActiveDays, s.clock.ISOWeekday(now, loc))
	case models.RepeatMonthly:
		return containsInt(daily.ActiveDays, now.In(loc).Day())
	case models.RepeatYearly:
		// Due on the last calendar day of each listed month.
		return containsInt(daily.ActiveDays, int(now.In(loc).Month())) &&
			now.In(loc).Day() == s.clock.LastDayOfMonth(now, loc)
	default:
		return false
	}
}

// sweepDaily applies the daily schedule penalty and re-opens the
// checkmark for the new day.
func (s *Sweeper) sweepDaily(daily *models.Daily, now time.Time, loc *time.Location) (bool, error) {
	if s.checkedToday(daily, now, loc) {
		return false, nil
	}

	satisfied, err := s.satisfiedToday(daily.ID, now, loc)
	if err != nil {
		return false, err
	}

	penalize := s.dailyDueToday(daily, now, loc) && !satisfied

	updates := map[string]any{"last_due_check": now}
	if penalize {
		updates["value_level"] = valuelevel.Decrease(daily.ValueLevel, 1)
		updates["streak"] = 0
	}
	if !satisfied && daily.Completed {
		// New day, no completion yet: the checkmark re-opens.
		updates["completed"] = false
	}
	if err := s.db.Model(daily).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("update daily: %w", err)
	}
	return penalize, nil
}

// sweepTodo re-derives the value level of an open, past-due todo from
// its elapsed lateness. No once-per-day guard: the absolute adjustment
// is idempotent within a day and must deepen as days pass.
func (s *Sweeper) sweepTodo(todo *models.Todo, now time.Time, loc *time.Location) (bool, error) {
	if todo.DueDate == nil {
		return false, nil
	}
	daysLate := s.clock.DaysLate(*todo.DueDate, now, loc)
	if daysLate < 1 {
		return false, nil
	}

	level := valuelevel.OverdueAdjustment(daysLate)
	penalized := level != todo.ValueLevel
	if err := s.db.Model(todo).Updates(map[string]any{
		"value_level":    level,
		"last_due_check": now,
	}).Error; err != nil {
		return false, fmt.Errorf("update todo: %w", err)
	}
	return penalized, nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
