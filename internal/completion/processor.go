package completion

import (
	"errors"
	"fmt"
	"time"

	"habit-quest-api/internal/clock"
	"habit-quest-api/internal/events"
	"habit-quest-api/internal/models"
	"habit-quest-api/internal/scoring"
	"habit-quest-api/internal/stats"
	"habit-quest-api/internal/valuelevel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Processor orchestrates a single task-completion event: value-level
// transition, reward calculation, stats mutation and completion record,
// all inside one transaction so a failure leaves the task untouched.
// Stat-change events fire only after the transaction commits.
type Processor struct {
	db     *gorm.DB
	ledger *stats.Ledger
	clock  *clock.Clock

	// RewardTodos controls whether todo completions credit
	// experience/coins. The calculator is always available to callers;
	// whether toggling a todo invokes it is a policy choice.
	RewardTodos bool
}

// NewProcessor wires a Processor against the given store, ledger and clock.
func NewProcessor(db *gorm.DB, ledger *stats.Ledger, c *clock.Clock) *Processor {
	return &Processor{db: db, ledger: ledger, clock: c}
}

// Result describes the outcome of one completion event.
type Result struct {
	TaskID      string          `json:"taskId"`
	Kind        models.TaskKind `json:"kind"`
	LevelBefore int             `json:"levelBefore"`
	LevelAfter  int             `json:"levelAfter"`
	// Credited is false when the event changed task state without
	// granting a reward (same-day daily re-toggle, un-completion, todo
	// toggles with rewards disabled).
	Credited    bool            `json:"credited"`
	Reward      *scoring.Reward `json:"reward,omitempty"`
	Streak      int             `json:"streak,omitempty"`
	CounterUp   int             `json:"counterUp,omitempty"`
	CounterDown int             `json:"counterDown,omitempty"`
}

func (p *Processor) userLocation(userID string) (*time.Location, error) {
	var user models.User
	if err := p.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return p.clock.Location(user.Timezone), nil
}

// checklistOpen reports whether any checklist item is still open.
func checklistOpen(items []models.ChecklistItem) bool {
	for _, item := range items {
		if !item.Completed {
			return true
		}
	}
	return false
}

// hasRecordInWindow reports whether a completion record exists for the
// task inside [from, to]. Used for the daily same-day dedup gate.
func hasRecordInWindow(db *gorm.DB, taskID string, from, to time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.CompletionRecord{}).
		Where("task_id = ? AND completed_at >= ? AND completed_at <= ?", taskID, from, to).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count completion records: %w", err)
	}
	return count > 0, nil
}

// ScoreHabit applies a good or bad tick to a habit. The reward is
// computed at the level read at the start of the unit of work, before
// the transition it causes.
func (p *Processor) ScoreHabit(userID, habitID string, good bool) (*Result, error) {
	var habit models.Habit
	if err := p.db.First(&habit, "id = ? AND user_id = ?", habitID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch habit: %w", err)
	}

	if good && !habit.Up {
		return nil, fmt.Errorf("habit %s has no good nature: %w", habitID, ErrInvalidOperation)
	}
	if !good && !habit.Down {
		return nil, fmt.Errorf("habit %s has no bad nature: %w", habitID, ErrInvalidOperation)
	}

	levelBefore := habit.ValueLevel
	reward := scoring.Calculate(models.KindHabit, habit.Difficulty, levelBefore, false)

	var levelAfter int
	updates := map[string]any{}
	if good {
		levelAfter = valuelevel.Increase(levelBefore, 1)
		updates["value_level"] = levelAfter
		updates["counter_up"] = habit.CounterUp + 1
	} else {
		levelAfter = valuelevel.Decrease(levelBefore, 1)
		updates["value_level"] = levelAfter
		updates["counter_down"] = habit.CounterDown + 1
	}

	now := p.clock.Now()
	var changes []events.StatChange
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&habit).Updates(updates).Error; err != nil {
			return fmt.Errorf("update habit: %w", err)
		}

		expChange, err := p.ledger.IncrementExp(tx, userID, reward.Experience)
		if err != nil {
			return err
		}
		changes = append(changes, expChange)

		var coinChange events.StatChange
		coinsGranted := reward.Coins
		if good {
			coinChange, err = p.ledger.IncrementCoins(tx, userID, reward.Coins)
		} else {
			coinChange, err = p.ledger.DecrementCoinsFloorZero(tx, userID, reward.Coins)
			coinsGranted = -reward.Coins
		}
		if err != nil {
			return err
		}
		changes = append(changes, coinChange)

		record := models.CompletionRecord{
			ID:           uuid.NewString(),
			TaskID:       habit.ID,
			TaskKind:     models.KindHabit,
			UserID:       userID,
			CompletedAt:  now,
			Good:         good,
			ExpGranted:   reward.Experience,
			CoinsGranted: coinsGranted,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert completion record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.ledger.Emit(changes...)

	counterUp, counterDown := habit.CounterUp, habit.CounterDown
	if good {
		counterUp++
	} else {
		counterDown++
	}
	return &Result{
		TaskID:      habit.ID,
		Kind:        models.KindHabit,
		LevelBefore: levelBefore,
		LevelAfter:  levelAfter,
		Credited:    true,
		Reward:      &reward,
		CounterUp:   counterUp,
		CounterDown: counterDown,
	}, nil
}

// ToggleDaily marks a daily complete or incomplete. Crediting is
// forward-only: the incomplete->complete transition grants a reward at
// most once per local calendar day (gated on an existing completion
// record), and un-completing reverses nothing but resets the streak.
// A daily with open checklist items cannot be completed directly; the
// items are checked off first.
func (p *Processor) ToggleDaily(userID, dailyID string, complete bool) (*Result, error) {
	var daily models.Daily
	if err := p.db.First(&daily, "id = ? AND user_id = ?", dailyID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("daily %s: %w", dailyID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch daily: %w", err)
	}

	loc, err := p.userLocation(userID)
	if err != nil {
		return nil, err
	}
	now := p.clock.Now()

	if !complete {
		// Forward-only crediting: nothing is reversed, but the streak
		// resets with the un-completion.
		if err := p.db.Model(&daily).Updates(map[string]any{
			"completed": false,
			"streak":    0,
		}).Error; err != nil {
			return nil, fmt.Errorf("update daily: %w", err)
		}
		return &Result{
			TaskID:      daily.ID,
			Kind:        models.KindDaily,
			LevelBefore: daily.ValueLevel,
			LevelAfter:  daily.ValueLevel,
			Streak:      0,
		}, nil
	}

	if daily.Completed {
		// Already complete; nothing to do.
		return &Result{
			TaskID:      daily.ID,
			Kind:        models.KindDaily,
			LevelBefore: daily.ValueLevel,
			LevelAfter:  daily.ValueLevel,
			Streak:      daily.Streak,
		}, nil
	}

	if checklistOpen(daily.Checklist) {
		return nil, fmt.Errorf("daily %s has open checklist items: %w", dailyID, ErrInvalidOperation)
	}

	levelBefore := daily.ValueLevel
	reward := scoring.Calculate(models.KindDaily, daily.Difficulty, levelBefore, false)
	levelAfter := valuelevel.Increase(levelBefore, 1)
	streak := daily.Streak + 1

	var changes []events.StatChange
	duplicate := false
	err = p.db.Transaction(func(tx *gorm.DB) error {
		// The dedup gate shares the transaction with the record insert,
		// so two racing toggles cannot both pass it and double-credit.
		already, err := hasRecordInWindow(tx, daily.ID, p.clock.StartOfDay(now, loc), p.clock.EndOfDay(now, loc))
		if err != nil {
			return err
		}
		if already {
			// Re-toggle within the same day: flip the flag, grant nothing.
			duplicate = true
			if err := tx.Model(&daily).Update("completed", true).Error; err != nil {
				return fmt.Errorf("update daily: %w", err)
			}
			return nil
		}

		if err := tx.Model(&daily).Updates(map[string]any{
			"completed":   true,
			"value_level": levelAfter,
			"streak":      streak,
		}).Error; err != nil {
			return fmt.Errorf("update daily: %w", err)
		}

		expChange, err := p.ledger.IncrementExp(tx, userID, reward.Experience)
		if err != nil {
			return err
		}
		coinChange, err := p.ledger.IncrementCoins(tx, userID, reward.Coins)
		if err != nil {
			return err
		}
		changes = append(changes, expChange, coinChange)

		record := models.CompletionRecord{
			ID:           uuid.NewString(),
			TaskID:       daily.ID,
			TaskKind:     models.KindDaily,
			UserID:       userID,
			CompletedAt:  now,
			Good:         true,
			ExpGranted:   reward.Experience,
			CoinsGranted: reward.Coins,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert completion record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if duplicate {
		return &Result{
			TaskID:      daily.ID,
			Kind:        models.KindDaily,
			LevelBefore: daily.ValueLevel,
			LevelAfter:  daily.ValueLevel,
			Streak:      daily.Streak,
		}, nil
	}
	p.ledger.Emit(changes...)

	return &Result{
		TaskID:      daily.ID,
		Kind:        models.KindDaily,
		LevelBefore: levelBefore,
		LevelAfter:  levelAfter,
		Credited:    true,
		Reward:      &reward,
		Streak:      streak,
	}, nil
}

// ToggleTodo marks a todo complete or incomplete. Both directions
// re-evaluate the value level against "now": past-due todos land on
// the overdue adjustment for their lateness, everything else on the
// neutral level. Rewards are granted only when RewardTodos is enabled
// and the todo transitions to complete.
func (p *Processor) ToggleTodo(userID, todoID string, complete bool) (*Result, error) {
	var todo models.Todo
	if err := p.db.First(&todo, "id = ? AND user_id = ?", todoID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %s: %w", todoID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch todo: %w", err)
	}

	loc, err := p.userLocation(userID)
	if err != nil {
		return nil, err
	}
	now := p.clock.Now()

	if complete && !todo.Completed && checklistOpen(todo.Checklist) {
		return nil, fmt.Errorf("todo %s has open checklist items: %w", todoID, ErrInvalidOperation)
	}

	levelBefore := todo.ValueLevel
	daysLate := 0
	if todo.DueDate != nil {
		daysLate = p.clock.DaysLate(*todo.DueDate, now, loc)
	}
	levelAfter := valuelevel.OverdueAdjustment(daysLate)

	credit := complete && !todo.Completed && p.RewardTodos
	var reward scoring.Reward
	if credit {
		reward = scoring.Calculate(models.KindTodo, todo.Difficulty, levelBefore, todo.DueDate != nil)
	}

	var changes []events.StatChange
	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&todo).Updates(map[string]any{
			"completed":   complete,
			"value_level": levelAfter,
		}).Error; err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		if !credit {
			return nil
		}

		expChange, err := p.ledger.IncrementExp(tx, userID, reward.Experience)
		if err != nil {
			return err
		}
		coinChange, err := p.ledger.IncrementCoins(tx, userID, reward.Coins)
		if err != nil {
			return err
		}
		changes = append(changes, expChange, coinChange)

		record := models.CompletionRecord{
			ID:           uuid.NewString(),
			TaskID:       todo.ID,
			TaskKind:     models.KindTodo,
			UserID:       userID,
			CompletedAt:  now,
			Good:         true,
			ExpGranted:   reward.Experience,
			CoinsGranted: reward.Coins,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert completion record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.ledger.Emit(changes...)

	res := &Result{
		TaskID:      todo.ID,
		Kind:        models.KindTodo,
		LevelBefore: levelBefore,
		LevelAfter:  levelAfter,
		Credited:    credit,
	}
	if credit {
		res.Reward = &reward
	}
	return res, nil
}

// SetDailyChecklistItem marks one checklist item done or open. Checking
// off the last open item completes the daily through the normal
// crediting path; re-opening an item on a completed daily un-completes
// it.
func (p *Processor) SetDailyChecklistItem(userID, dailyID, itemID string, done bool) (*Result, error) {
	var daily models.Daily
	if err := p.db.First(&daily, "id = ? AND user_id = ?", dailyID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("daily %s: %w", dailyID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch daily: %w", err)
	}

	if err := setChecklistItem(daily.Checklist, itemID, done); err != nil {
		return nil, err
	}
	if err := p.db.Model(&daily).Update("checklist", daily.Checklist).Error; err != nil {
		return nil, fmt.Errorf("update checklist: %w", err)
	}

	if done && !daily.Completed && !checklistOpen(daily.Checklist) {
		return p.ToggleDaily(userID, dailyID, true)
	}
	if !done && daily.Completed {
		return p.ToggleDaily(userID, dailyID, false)
	}
	return &Result{
		TaskID:      daily.ID,
		Kind:        models.KindDaily,
		LevelBefore: daily.ValueLevel,
		LevelAfter:  daily.ValueLevel,
		Streak:      daily.Streak,
	}, nil
}

// SetTodoChecklistItem mirrors SetDailyChecklistItem for todos.
func (p *Processor) SetTodoChecklistItem(userID, todoID, itemID string, done bool) (*Result, error) {
	var todo models.Todo
	if err := p.db.First(&todo, "id = ? AND user_id = ?", todoID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %s: %w", todoID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch todo: %w", err)
	}

	if err := setChecklistItem(todo.Checklist, itemID, done); err != nil {
		return nil, err
	}
	if err := p.db.Model(&todo).Update("checklist", todo.Checklist).Error; err != nil {
		return nil, fmt.Errorf("update checklist: %w", err)
	}

	if done && !todo.Completed && !checklistOpen(todo.Checklist) {
		return p.ToggleTodo(userID, todoID, true)
	}
	if !done && todo.Completed {
		return p.ToggleTodo(userID, todoID, false)
	}
	return &Result{
		TaskID:      todo.ID,
		Kind:        models.KindTodo,
		LevelBefore: todo.ValueLevel,
		LevelAfter:  todo.ValueLevel,
	}, nil
}

func setChecklistItem(items []models.ChecklistItem, itemID string, done bool) error {
	for i := range items {
		if items[i].ID == itemID {
			items[i].Completed = done
			return nil
		}
	}
	return fmt.Errorf("checklist item %s: %w", itemID, ErrNotFound)
}
