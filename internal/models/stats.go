package models

// UserStats is the per-user accumulator of experience and coins.
// One row per user, created lazily on the first stat mutation.
// Mutations go through atomic column expressions in the stats ledger,
// never read-modify-write.
type UserStats struct {
	UserID     string  `json:"userId" gorm:"column:user_id;primaryKey"`
	Experience float64 `json:"experience" gorm:"default:0"`
	Coins      float64 `json:"coins" gorm:"default:0"`
}

// TableName specifies the table name for UserStats Model
func (UserStats) TableName() string {
	return "user_stats"
}
