package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`

	PaxBalance int64 `json:"pax_balance"`

	IsMember    bool       `json:"is_member"`
	MemberUntil *time.Time `json:"member_until,omitempty"`

	ClaimStreak     int        `json:"claim_streak"`
	LastDailyReward *time.Time `json:"last_daily_reward,omitempty"`
}
