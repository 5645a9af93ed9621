package models

import (
	"gorm.io/gorm"
)

// Reward is a user-defined shop item redeemable for coins
type Reward struct {
	ID     string  `json:"id" gorm:"primaryKey"`
	UserID string  `json:"-" gorm:"column:user_id;index;not null"`
	Title  string  `json:"title" gorm:"not null"`
	Notes  string  `json:"notes"`
	Cost   float64 `json:"cost" gorm:"not null"`
	gorm.Model
}

// TableName specifies the table name for Reward Model
func (Reward) TableName() string {
	return "rewards"
}
