package types

import (
	"time"

	"github.com/poundbot/guildbot/gbclock"
)

var iclock = gbclock.Clock

type Timestamp struct {
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewTimestamp creates a Timestamp with the CreatedAt and UpdatedAt set
// to current time UTC
func NewTimestamp() Timestamp {
	now := iclock().Now().UTC()
	return Timestamp{CreatedAt: now, UpdatedAt: now}
}

// Touch sets UpdatedAt to the current time.
func (t *Timestamp) Touch() {
	t.UpdatedAt = iclock().Now().UTC()
}
