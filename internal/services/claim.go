package services

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"time"

	"creaturegrove-backend/internal/models"

	"github.com/google/uuid"
)

// ClaimService runs the daily reward. The streak advances one per claim,
// resets when the user lets more than STREAK_RESET seconds pass beyond the
// cooldown, and pays a scroll every seventh day.
type ClaimService struct {
	db         *sql.DB
	redis      *RedisService
	membership *MembershipService
}

func NewClaimService(db *sql.DB, redisService *RedisService, membership *MembershipService) *ClaimService {
	return &ClaimService{
		db:         db,
		redis:      redisService,
		membership: membership,
	}
}

// nextStreak applies the streak rule: a first claim, or a gap longer than
// StreakReset beyond the mandatory cooldown, starts over at day one.
func nextStreak(hasPrevious bool, secondsSince float64, current int) int {
	effectiveElapsed := secondsSince - DailyCooldown.Seconds()
	if !hasPrevious || effectiveElapsed > StreakReset.Seconds() {
		return 1
	}
	return current + 1
}

// claimReward pays 10 pax in week one and one more per later week; every
// seventh day also pays a scroll.
func claimReward(streak int) (int64, bool) {
	week := ((streak - 1) / 7) + 1
	return int64(10 + (week - 1)), streak%models.ScrollRewardDay == 0
}

// Claim processes one daily claim inside a single transaction with a row
// lock on the user, so two concurrent claims cannot both pay.
func (s *ClaimService) Claim(userID uuid.UUID) (*models.ClaimResult, error) {
	isMember, err := s.membership.IsMember(userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var balance int64
	var lastClaim sql.NullTime
	var streak int
	var username string
	var secondsSince float64

	err = tx.QueryRow(
		`SELECT pax_balance, last_daily_reward, claim_streak, username,
		        COALESCE(
		            EXTRACT(EPOCH FROM (NOW() - last_daily_reward))::float,
		            CAST($1 AS float)
		        ) AS seconds_since_last_claim
		 FROM users
		 WHERE id = $2
		 FOR UPDATE`,
		int64(DailyCooldown.Seconds()),
		userID,
	).Scan(&balance, &lastClaim, &streak, &username, &secondsSince)
	if err != nil {
		return nil, fmt.Errorf("failed to read user for claim: %v", err)
	}

	cooldownSeconds := DailyCooldown.Seconds()
	if secondsSince < cooldownSeconds {
		remaining := int64(cooldownSeconds - secondsSince)
		return &models.ClaimResult{
			Success:           false,
			RemainingCooldown: remaining,
			ClaimStreak:       streak,
			Message:           fmt.Sprintf("Please wait %d seconds before claiming again.", remaining),
		}, nil
	}

	newStreak := nextStreak(lastClaim.Valid, secondsSince, streak)
	reward, scrollAwarded := claimReward(newStreak)
	newBalance := balance + reward

	_, err = tx.Exec(
		"UPDATE users SET pax_balance = $1, last_daily_reward = NOW(), claim_streak = $2 WHERE id = $3",
		newBalance, newStreak, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to apply claim: %v", err)
	}

	if scrollAwarded {
		if err := upsertScroll(tx, userID); err != nil {
			return nil, err
		}
		log.Printf("%s received a scroll for day %d claim", username, newStreak)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %v", err)
	}

	// Small margin so a fresh status read never shows claimable early.
	if err := s.redis.ArmCooldown(KeyClaimCooldown, userID.String(), DailyCooldown+5*time.Second); err != nil {
		log.Printf("failed to arm claim cooldown for %s: %v", userID, err)
	}

	return &models.ClaimResult{
		Success:           true,
		NewBalance:        newBalance,
		RemainingCooldown: int64(cooldownSeconds),
		ClaimStreak:       newStreak,
		ScrollReward:      scrollAwarded,
		Message:           fmt.Sprintf("Claimed %d pax. Day %d of your streak.", reward, newStreak),
	}, nil
}

// ResetStreak zeroes the streak, but only once the claim window has truly
// lapsed. Inside the window it is a no-op.
func (s *ClaimService) ResetStreak(userID uuid.UUID) (bool, error) {
	var lastClaim sql.NullTime
	var secondsSince float64

	err := s.db.QueryRow(
		`SELECT last_daily_reward,
		        COALESCE(
		            EXTRACT(EPOCH FROM (NOW() - last_daily_reward))::float,
		            CAST($1 AS float)
		        ) AS seconds_since_last_claim
		 FROM users
		 WHERE id = $2`,
		int64(DailyCooldown.Seconds()),
		userID,
	).Scan(&lastClaim, &secondsSince)
	if err != nil {
		return false, fmt.Errorf("failed to read user for streak reset: %v", err)
	}

	if lastClaim.Valid && secondsSince <= StreakReset.Seconds() {
		return false, nil
	}

	_, err = s.db.Exec(
		"UPDATE users SET claim_streak = 0, last_daily_reward = NULL WHERE id = $1",
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to reset streak: %v", err)
	}

	return true, nil
}

// Status combines the redis cooldown TTL with the database-derived residual.
// When redis has lost the key but the database shows a recent claim, the
// residual is written back so later reads are cheap.
func (s *ClaimService) Status(userID uuid.UUID) (*models.ClaimStatus, error) {
	isMember, err := s.membership.IsMember(userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return &models.ClaimStatus{
			RemainingCooldown:  3600,
			RequiresMembership: true,
		}, nil
	}

	uid := userID.String()

	cooldown, err := s.redis.CooldownRemaining(KeyClaimCooldown, uid)
	if err != nil {
		return nil, err
	}

	var streak int
	var lastClaim sql.NullTime
	var secondsSince float64

	err = s.db.QueryRow(
		`SELECT claim_streak, last_daily_reward,
		        COALESCE(
		            EXTRACT(EPOCH FROM (NOW() - last_daily_reward))::float,
		            CAST($1 AS float)
		        ) AS seconds_since_last_claim
		 FROM users
		 WHERE id = $2`,
		int64(DailyCooldown.Seconds()),
		userID,
	).Scan(&streak, &lastClaim, &secondsSince)
	if err != nil {
		return nil, fmt.Errorf("failed to read claim status: %v", err)
	}

	if cooldown == 0 && lastClaim.Valid && secondsSince < DailyCooldown.Seconds() {
		cooldown = int64(math.Ceil(DailyCooldown.Seconds()-secondsSince)) + 5

		if err := s.redis.ArmCooldown(KeyClaimCooldown, uid, time.Duration(cooldown)*time.Second); err != nil {
			log.Printf("failed to restore claim cooldown for %s: %v", userID, err)
		}
	}

	status := &models.ClaimStatus{
		RemainingCooldown: cooldown,
		ClaimStreak:       streak,
	}
	if lastClaim.Valid {
		ts := lastClaim.Time.Unix()
		status.LastClaimTime = &ts
	}

	return status, nil
}
