package models

import (
	"time"
)

// CompletionRecord is an append-only audit entry produced by a
// completion event. Rows are never updated or deleted; the daily
// same-day dedup check queries them by task and time window.
type CompletionRecord struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	TaskID      string    `json:"taskId" gorm:"column:task_id;index;not null"`
	TaskKind    TaskKind  `json:"taskKind" gorm:"column:task_kind;not null"`
	UserID      string    `json:"userId" gorm:"column:user_id;index;not null"`
	CompletedAt time.Time `json:"completedAt" gorm:"column:completed_at;index;not null"`
	Good        bool      `json:"good" gorm:"default:true"`
	ExpGranted  float64   `json:"expGranted" gorm:"column:exp_granted"`
	// CoinsGranted is signed; habit "bad" events record the debit as a
	// negative amount.
	CoinsGranted float64 `json:"coinsGranted" gorm:"column:coins_granted"`
}

// TableName specifies the table name for CompletionRecord Model
func (CompletionRecord) TableName() string {
	return "completion_records"
}
