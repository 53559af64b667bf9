package models

import (
	"time"
)

// Move is one row of the immutable per-match move log. Only processed moves
// are written: advances, finishes, and collisions. Rejected attempts never
// reach the log.
type Move struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID       string `gorm:"index;not null" json:"match_id"`
	ParticipantID string `gorm:"index;not null" json:"participant_id"`
	Round         int    `gorm:"not null" json:"round"`
	Sequence      int    `gorm:"not null" json:"sequence"` // per-match monotonic

	FromRow   int    `json:"from_row"`
	FromCol   int    `json:"from_col"`
	ToRow     int    `json:"to_row"`
	ToCol     int    `json:"to_col"`
	Collision bool   `gorm:"default:false" json:"collision"`
	Reason    string `gorm:"type:varchar(16)" json:"reason"`

	At time.Time `json:"at"`

	Timestamps
}
