package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskKind discriminates the three task variants
type TaskKind string

const (
	KindHabit TaskKind = "habit"
	KindDaily TaskKind = "daily"
	KindTodo  TaskKind = "todo"
)

// Difficulty represents the difficulty tier of a task
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "very_easy"
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
)

// IsValid reports whether d is one of the four known tiers
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyVeryEasy, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// RepeatPeriod represents how often a daily repeats
type RepeatPeriod string

const (
	RepeatDaily   RepeatPeriod = "daily"
	RepeatWeekly  RepeatPeriod = "weekly"
	RepeatMonthly RepeatPeriod = "monthly"
	RepeatYearly  RepeatPeriod = "yearly"
)

// ChecklistItem is a sub-item of a daily or todo
type ChecklistItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Scorable is the variant-independent view the progression engine sees.
// Each of Habit, Daily and Todo implements it; variant-specific
// obligation data is reached through a type switch on the concrete type.
type Scorable interface {
	Kind() TaskKind
	TaskID() string
	OwnerID() string
	Level() int
	SetLevel(level int)
	DifficultyTier() Difficulty
	DueCheckedAt() *time.Time
	SetDueCheckedAt(t time.Time)
}

// Habit represents a good/bad habit with no fixed schedule
type Habit struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"-" gorm:"column:user_id;index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Notes        string     `json:"notes"`
	Difficulty   Difficulty `json:"difficulty" gorm:"default:'easy'"`
	ValueLevel   int        `json:"valueLevel" gorm:"column:value_level;default:0"`
	LastDueCheck *time.Time `json:"lastDueCheck" gorm:"column:last_due_check"`
	Up           bool       `json:"up" gorm:"default:true"`
	Down         bool       `json:"down" gorm:"default:false"`
	CounterUp    int        `json:"counterUp" gorm:"column:counter_up;default:0"`
	CounterDown  int        `json:"counterDown" gorm:"column:counter_down;default:0"`
	ResetPeriod  string     `json:"resetPeriod" gorm:"column:reset_period;default:'daily'"`
	gorm.Model
}

// TableName specifies the table name for Habit Model
func (Habit) TableName() string {
	return "habits"
}

func (h *Habit) Kind() TaskKind              { return KindHabit }
func (h *Habit) TaskID() string              { return h.ID }
func (h *Habit) OwnerID() string             { return h.UserID }
func (h *Habit) Level() int                  { return h.ValueLevel }
func (h *Habit) SetLevel(level int)          { h.ValueLevel = level }
func (h *Habit) DifficultyTier() Difficulty  { return h.Difficulty }
func (h *Habit) DueCheckedAt() *time.Time    { return h.LastDueCheck }
func (h *Habit) SetDueCheckedAt(t time.Time) { h.LastDueCheck = &t }

// Daily represents a task due on a repeating schedule
type Daily struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	UserID       string          `json:"-" gorm:"column:user_id;index;not null"`
	Title        string          `json:"title" gorm:"not null"`
	Notes        string          `json:"notes"`
	Difficulty   Difficulty      `json:"difficulty" gorm:"default:'easy'"`
	ValueLevel   int             `json:"valueLevel" gorm:"column:value_level;default:0"`
	LastDueCheck *time.Time      `json:"lastDueCheck" gorm:"column:last_due_check"`
	RepeatPeriod RepeatPeriod    `json:"repeatPeriod" gorm:"column:repeat_period;default:'daily'"`
	EveryN       int             `json:"everyN" gorm:"column:every_n;default:1"`
	ActiveDays   []int           `json:"activeDays" gorm:"column:active_days;serializer:json"`
	Streak       int             `json:"streak" gorm:"default:0"`
	StartDate    time.Time       `json:"startDate" gorm:"column:start_date"`
	Completed    bool            `json:"completed" gorm:"default:false"`
	Checklist    []ChecklistItem `json:"checklist" gorm:"serializer:json"`
	gorm.Model
}

// TableName specifies the table name for Daily Model
func (Daily) TableName() string {
	return "dailies"
}

func (d *Daily) Kind() TaskKind              { return KindDaily }
func (d *Daily) TaskID() string              { return d.ID }
func (d *Daily) OwnerID() string             { return d.UserID }
func (d *Daily) Level() int                  { return d.ValueLevel }
func (d *Daily) SetLevel(level int)          { d.ValueLevel = level }
func (d *Daily) DifficultyTier() Difficulty  { return d.Difficulty }
func (d *Daily) DueCheckedAt() *time.Time    { return d.LastDueCheck }
func (d *Daily) SetDueCheckedAt(t time.Time) { d.LastDueCheck = &t }

// Todo represents a one-off task with an optional due date
type Todo struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	UserID       string          `json:"-" gorm:"column:user_id;index;not null"`
	Title        string          `json:"title" gorm:"not null"`
	Notes        string          `json:"notes"`
	Difficulty   Difficulty      `json:"difficulty" gorm:"default:'easy'"`
	ValueLevel   int             `json:"valueLevel" gorm:"column:value_level;default:0"`
	LastDueCheck *time.Time      `json:"lastDueCheck" gorm:"column:last_due_check"`
	DueDate      *time.Time      `json:"dueDate" gorm:"column:due_date"`
	Completed    bool            `json:"completed" gorm:"default:false"`
	Checklist    []ChecklistItem `json:"checklist" gorm:"serializer:json"`
	gorm.Model
}

// TableName specifies the table name for Todo Model
func (Todo) TableName() string {
	return "todos"
}

func (t *Todo) Kind() TaskKind               { return KindTodo }
func (t *Todo) TaskID() string               { return t.ID }
func (t *Todo) OwnerID() string              { return t.UserID }
func (t *Todo) Level() int                   { return t.ValueLevel }
func (t *Todo) SetLevel(level int)           { t.ValueLevel = level }
func (t *Todo) DifficultyTier() Difficulty   { return t.Difficulty }
func (t *Todo) DueCheckedAt() *time.Time     { return t.LastDueCheck }
func (t *Todo) SetDueCheckedAt(tm time.Time) { t.LastDueCheck = &tm }
