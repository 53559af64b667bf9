package models

// RoundStanding is one participant's row in a round settlement. A completed
// match produces one batch of standings per round, keyed by the ranking
// computed at the round boundary.
type RoundStanding struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID       string `gorm:"index;not null" json:"match_id"`
	Round         int    `gorm:"not null" json:"round"`
	ParticipantID string `gorm:"index;not null" json:"participant_id"`
	AgentID       string `gorm:"index;not null" json:"agent_id"`

	Rank       int   `json:"rank"`
	Collisions int   `json:"collisions"` // cumulative through this round
	// RoundTimeMS is the effective round time in milliseconds, collision
	// penalties included. Timed-out participants carry the sentinel value.
	RoundTimeMS int64 `json:"round_time_ms"`
	Eliminated  bool  `gorm:"default:false" json:"eliminated"`

	Timestamps
}
