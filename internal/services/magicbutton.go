package services

import (
	"database/sql"
	"fmt"
	"log"

	"creaturegrove-backend/internal/models"

	"github.com/google/uuid"
)

const magicButtonReward = 50

// MagicButtonService pays a fixed pax reward per press, once per cooldown,
// and keeps a public trail of recent presses.
type MagicButtonService struct {
	db    *sql.DB
	redis *RedisService
}

func NewMagicButtonService(db *sql.DB, redisService *RedisService) *MagicButtonService {
	return &MagicButtonService{
		db:    db,
		redis: redisService,
	}
}

func (s *MagicButtonService) Press(userID uuid.UUID) (*models.MagicButtonResult, error) {
	uid := userID.String()

	remaining, err := s.redis.CooldownRemaining(KeyButtonCooldown, uid)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		clicks, total, err := s.recentClicks()
		if err != nil {
			return nil, err
		}
		return &models.MagicButtonResult{
			Success:           false,
			CooldownRemaining: remaining,
			LastClicks:        clicks,
			TotalClicks:       total,
		}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var newBalance int64
	err = tx.QueryRow(
		`WITH click_insert AS (
			INSERT INTO magic_button_clicks (user_id, reward_amount)
			VALUES ($1, $2)
		)
		UPDATE users
		SET pax_balance = pax_balance + $2
		WHERE id = $1
		RETURNING pax_balance`,
		userID, magicButtonReward,
	).Scan(&newBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to record button press: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit button press: %v", err)
	}

	if err := s.redis.ArmCooldown(KeyButtonCooldown, uid, ButtonCooldown); err != nil {
		log.Printf("failed to arm button cooldown for %s: %v", userID, err)
	}

	clicks, total, err := s.recentClicks()
	if err != nil {
		return nil, err
	}

	reward := magicButtonReward
	return &models.MagicButtonResult{
		Success:           true,
		RewardAmount:      &reward,
		CooldownRemaining: int64(ButtonCooldown.Seconds()),
		LastClicks:        clicks,
		NewBalance:        &newBalance,
		TotalClicks:       total,
	}, nil
}

func (s *MagicButtonService) recentClicks() ([]models.MagicButtonClick, int64, error) {
	rows, err := s.db.Query(
		`SELECT u.username, mb.clicked_at::text, mb.reward_amount
		 FROM magic_button_clicks mb
		 JOIN users u ON mb.user_id = u.id
		 ORDER BY mb.clicked_at DESC
		 LIMIT 3`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query button presses: %v", err)
	}
	defer rows.Close()

	clicks := []models.MagicButtonClick{}
	for rows.Next() {
		var click models.MagicButtonClick
		if err := rows.Scan(&click.Username, &click.ClickedAt, &click.RewardAmount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan button press: %v", err)
		}
		clicks = append(clicks, click)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.db.QueryRow("SELECT COUNT(*) FROM magic_button_clicks").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count button presses: %v", err)
	}

	return clicks, total, nil
}
