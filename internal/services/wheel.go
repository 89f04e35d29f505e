package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log"

	"creaturegrove-backend/internal/models"

	"github.com/google/uuid"
)

// WheelService spins the reward wheel once per cooldown window. The draw
// comes from crypto/rand so clients cannot predict the band.
type WheelService struct {
	db         *sql.DB
	redis      *RedisService
	membership *MembershipService
}

func NewWheelService(db *sql.DB, redisService *RedisService, membership *MembershipService) *WheelService {
	return &WheelService{
		db:         db,
		redis:      redisService,
		membership: membership,
	}
}

// drawNumber returns a uniform real in [0, 100).
func drawNumber() (float64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to draw wheel number: %v", err)
	}
	// 53 bits of entropy gives a uniform float in [0, 1).
	value := float64(binary.BigEndian.Uint64(buf[:])>>11) / float64(1<<53)
	return value * 100, nil
}

func classify(r float64) (models.RewardType, int64) {
	switch {
	case r < 35:
		return models.RewardTinyPax, 10
	case r < 60:
		return models.RewardSmallPax, 20
	case r < 85:
		return models.RewardScroll, 0
	default:
		return models.RewardBigPax, 50
	}
}

func (s *WheelService) Spin(userID uuid.UUID) (*models.WheelSpinResult, error) {
	isMember, err := s.membership.IsMember(userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	uid := userID.String()

	remaining, err := s.redis.CooldownRemaining(KeyWheelCooldown, uid)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	r, err := drawNumber()
	if err != nil {
		return nil, err
	}
	rewardType, pax := classify(r)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var newBalance int64
	if rewardType == models.RewardScroll {
		if err := upsertScroll(tx, userID); err != nil {
			return nil, err
		}
		err = tx.QueryRow("SELECT pax_balance FROM users WHERE id = $1", userID).Scan(&newBalance)
	} else {
		err = tx.QueryRow(
			"UPDATE users SET pax_balance = pax_balance + $1 WHERE id = $2 RETURNING pax_balance",
			pax, userID,
		).Scan(&newBalance)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply wheel reward: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wheel spin: %v", err)
	}

	if err := s.redis.ArmCooldown(KeyWheelCooldown, uid, WheelCooldown); err != nil {
		log.Printf("failed to arm wheel cooldown for %s: %v", userID, err)
	}

	message := fmt.Sprintf("You won %d pax!", pax)
	if rewardType == models.RewardScroll {
		message = "You won a Summoning Scroll!"
	}

	return &models.WheelSpinResult{
		Success:      true,
		IsWin:        true,
		RewardType:   rewardType,
		NewBalance:   newBalance,
		ResultNumber: &r,
		Message:      message,
	}, nil
}

// Cooldown reports the seconds left until the next spin.
func (s *WheelService) Cooldown(userID uuid.UUID) (int64, error) {
	return s.redis.CooldownRemaining(KeyWheelCooldown, userID.String())
}
