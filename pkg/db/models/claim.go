package models

import "time"

// Claim records a receiver taking a listing. Claims are append-only.
type Claim struct {
	ClaimID    int64     `gorm:"column:claim_id;primaryKey;autoIncrement"`
	FoodID     int64     `gorm:"column:food_id;not null"`
	ReceiverID int64     `gorm:"column:receiver_id;not null"`
	ClaimTime  time.Time `gorm:"column:claim_time;not null"`
}

func (Claim) TableName() string { return "claims" }
