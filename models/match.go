package models

import (
	"time"
)

// Match is the durable record of one tournament instance, written when the
// match reaches a terminal state.
type Match struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Template    string  `gorm:"index;not null" json:"template"`
	Status      string  `gorm:"type:varchar(16);check:status IN ('completed','cancelled')" json:"status"`
	WinnerID    *string `gorm:"index" json:"winner_id,omitempty"` // nil = cancelled before a winner emerged
	PrizePool   float64 `gorm:"default:0" json:"prize_pool"`
	WinnerPrize float64 `gorm:"default:0" json:"winner_prize"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Timestamps
}
