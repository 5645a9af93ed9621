package stats

import (
	"errors"
	"fmt"

	"habit-quest-api/internal/events"
	"habit-quest-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger mutates per-user experience/coin accumulators. Every mutation
// is an atomic column expression executed by the store, never a
// read-modify-write from this tier, so concurrent completions cannot
// lose updates. The db handle is passed per call so callers can run
// mutations inside their own transaction.
type Ledger struct {
	bus *events.Bus
}

// NewLedger returns a Ledger publishing stat changes on bus.
func NewLedger(bus *events.Bus) *Ledger {
	return &Ledger{bus: bus}
}

// ensureRow lazily creates the stats row for a user. The ON CONFLICT
// DO NOTHING form keeps it safe under concurrent first mutations.
func (l *Ledger) ensureRow(db *gorm.DB, userID string) error {
	row := models.UserStats{UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}
	return nil
}

// Get returns the current stats for a user, or a zero row if none
// exists yet.
func (l *Ledger) Get(db *gorm.DB, userID string) (models.UserStats, error) {
	var row models.UserStats
	err := db.First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return models.UserStats{}, fmt.Errorf("fetch stats: %w", err)
	}
	return row, nil
}

// IncrementExp atomically adds amount to the user's experience and
// returns the resulting stat change for publishing after commit.
func (l *Ledger) IncrementExp(db *gorm.DB, userID string, amount float64) (events.StatChange, error) {
	if err := l.ensureRow(db, userID); err != nil {
		return events.StatChange{}, err
	}
	res := db.Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn("experience", gorm.Expr("experience + ?", amount))
	if res.Error != nil {
		return events.StatChange{}, fmt.Errorf("increment exp: %w", res.Error)
	}
	row, err := l.Get(db, userID)
	if err != nil {
		return events.StatChange{}, err
	}
	return events.StatChange{
		StatKind: events.StatExp,
		UserID:   userID,
		OldValue: row.Experience - amount,
		NewValue: row.Experience,
	}, nil
}

// IncrementCoins atomically adds amount to the user's coin balance.
func (l *Ledger) IncrementCoins(db *gorm.DB, userID string, amount float64) (events.StatChange, error) {
	if err := l.ensureRow(db, userID); err != nil {
		return events.StatChange{}, err
	}
	res := db.Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return events.StatChange{}, fmt.Errorf("increment coins: %w", res.Error)
	}
	row, err := l.Get(db, userID)
	if err != nil {
		return events.StatChange{}, err
	}
	return events.StatChange{
		StatKind: events.StatCoins,
		UserID:   userID,
		OldValue: row.Coins - amount,
		NewValue: row.Coins,
	}, nil
}

// DecrementCoinsFloorZero atomically subtracts amount from the user's
// coin balance, clamping at zero. The pre-mutation balance is read for
// the event payload only; the clamp itself happens in the store.
func (l *Ledger) DecrementCoinsFloorZero(db *gorm.DB, userID string, amount float64) (events.StatChange, error) {
	if err := l.ensureRow(db, userID); err != nil {
		return events.StatChange{}, err
	}
	before, err := l.Get(db, userID)
	if err != nil {
		return events.StatChange{}, err
	}
	res := db.Model(&models.UserStats{}).
		Where("user_id = ?", userID).
		UpdateColumn("coins", gorm.Expr("MAX(coins - ?, 0)", amount))
	if res.Error != nil {
		return events.StatChange{}, fmt.Errorf("decrement coins: %w", res.Error)
	}
	after, err := l.Get(db, userID)
	if err != nil {
		return events.StatChange{}, err
	}
	return events.StatChange{
		StatKind: events.StatCoins,
		UserID:   userID,
		OldValue: before.Coins,
		NewValue: after.Coins,
	}, nil
}

// Emit publishes stat changes on the bus. Callers invoke this only
// after their transaction has committed, so listeners never observe a
// rolled-back mutation.
func (l *Ledger) Emit(changes ...events.StatChange) {
	if l.bus == nil {
		return
	}
	for _, c := range changes {
		l.bus.Publish(c)
	}
}
