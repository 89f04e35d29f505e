package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"creaturegrove-backend/internal/models"

	"github.com/google/uuid"
)

// RewardService pays out pax and scrolls earned in the mini games. Every
// grant is gated by a signed session token, a live session key in redis, and
// the windowed limiter before a single row is touched.
type RewardService struct {
	db     *sql.DB
	redis  *RedisService
	signer *Signer
}

func NewRewardService(db *sql.DB, redisService *RedisService, signer *Signer) *RewardService {
	return &RewardService{
		db:     db,
		redis:  redisService,
		signer: signer,
	}
}

// CreateGameSession registers a reward session for the given game type and
// returns the signed "{sid}:{sig}" token. Word games additionally serialize
// creation behind a redis lock and refuse while a cooldown or another game
// is active.
func (s *RewardService) CreateGameSession(userID uuid.UUID, gameType models.GameType) (string, error) {
	if !models.ValidPaxGame(gameType) {
		return "", ErrInvalidGameType
	}

	uid := userID.String()

	if gameType == models.GameTypeWord {
		release, err := s.lockWordSession(uid)
		if err != nil {
			return "", err
		}
		defer release()
	}

	return s.newSession(uid, gameType)
}

// BeginWordGameSession creates a word reward session and hands the held
// session lock back to the caller, who releases it only after the active
// game marker is set. Releasing earlier would open a gap where a second
// concurrent start passes the active check.
func (s *RewardService) BeginWordGameSession(userID uuid.UUID) (string, func(), error) {
	uid := userID.String()

	release, err := s.lockWordSession(uid)
	if err != nil {
		return "", nil, err
	}

	token, err := s.newSession(uid, models.GameTypeWord)
	if err != nil {
		release()
		return "", nil, err
	}

	return token, release, nil
}

// lockWordSession runs the word gating under the session lock: cooldown
// first, then the active-game check once the lock is held. On success the
// lock stays held and the returned func releases it.
func (s *RewardService) lockWordSession(uid string) (func(), error) {
	remaining, err := s.redis.CooldownRemaining(KeyWordGameCooldown, uid)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	acquired, err := s.redis.AcquireSessionLock(uid)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrLockHeld
	}
	release := func() {
		if err := s.redis.ReleaseSessionLock(uid); err != nil {
			log.Printf("failed to release word session lock for %s: %v", uid, err)
		}
	}

	active, err := s.redis.GetActiveWordGame(uid)
	if err != nil {
		release()
		return nil, err
	}
	if active != "" {
		release()
		return nil, ErrLockHeld
	}

	return release, nil
}

func (s *RewardService) newSession(uid string, gameType models.GameType) (string, error) {
	sessionID := uuid.New().String()
	if err := s.redis.StoreGameSession(uid, sessionID, gameType); err != nil {
		return "", err
	}
	return s.signer.SessionToken(sessionID), nil
}

// validateSession checks a reward token end to end: shape and signature,
// live redis session, and timestamp age.
func (s *RewardService) validateSession(userID uuid.UUID, token string, timestamp int64) error {
	sessionID, ok := s.signer.ParseSessionToken(token)
	if !ok {
		return ErrSignatureInvalid
	}

	exists, err := s.redis.GameSessionExists(userID.String(), sessionID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrSessionExpired
	}

	if time.Now().Unix()-timestamp > int64(RewardSession.Seconds()) {
		return ErrSessionExpired
	}

	return nil
}

// GrantPax credits score pax to the user after all gates pass.
func (s *RewardService) GrantPax(userID uuid.UUID, req *models.GameRewardRequest) (int64, error) {
	if !models.ValidPaxGame(req.GameType) {
		return 0, ErrInvalidGameType
	}
	if req.Score <= 0 || req.Score > 1000 {
		return 0, ErrInvalidScore
	}

	uid := userID.String()

	// 2048 has no server-side session, so its reward is strictly one per
	// token. The marker is set before payout and never expires.
	if req.GameType == models.GameType2048 {
		fresh, err := s.redis.MarkRewardClaimed(uid, req.SessionToken)
		if err != nil {
			return 0, err
		}
		if !fresh {
			return 0, ErrDuplicateClaim
		}
	}

	if err := s.validateSession(userID, req.SessionToken, req.Timestamp); err != nil {
		return 0, err
	}

	err := s.redis.ReserveWindow(uid, req.GameType, int64(req.Score), MaxRewardPerWindow, RewardWindow)
	if err != nil {
		return 0, err
	}

	var newBalance int64
	err = s.db.QueryRow(
		"UPDATE users SET pax_balance = pax_balance + $1 WHERE id = $2 RETURNING pax_balance",
		req.Score,
		userID,
	).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to credit pax: %v", err)
	}

	return newBalance, nil
}

// GrantScroll awards one Summoning Scroll after the same gates as GrantPax,
// capped per minute rather than per five-minute window.
func (s *RewardService) GrantScroll(userID uuid.UUID, token string, gameType models.GameType, timestamp int64) error {
	if !models.ValidScrollGame(gameType) {
		return ErrInvalidGameType
	}

	if err := s.validateSession(userID, token, timestamp); err != nil {
		return err
	}

	err := s.redis.ReserveWindow(userID.String(), gameType, 1, MaxScrollPerMinute, ScrollWindow)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := upsertScroll(tx, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// upsertScroll increments the user's Summoning Scroll quantity, creating the
// row on first award. Shared by reward grants, the daily claim, and the
// wheel.
func upsertScroll(tx *sql.Tx, userID uuid.UUID) error {
	var quantity int
	err := tx.QueryRow(
		`UPDATE scrolls
		 SET quantity = quantity + 1, updated_at = NOW()
		 WHERE owner_id = $1 AND display_name = 'Summoning Scroll'
		 RETURNING quantity`,
		userID,
	).Scan(&quantity)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to update scroll: %v", err)
	}

	_, err = tx.Exec(
		`INSERT INTO scrolls (
			id, owner_id, created_at, updated_at, display_name,
			image_path, description, quantity, item_type
		) VALUES (
			$1, $2, NOW(), NOW(), 'Summoning Scroll',
			'/static/images/scroll-default.avif',
			'A scroll used to summon an egg',
			1, 'scroll'
		)`,
		uuid.New(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to create scroll: %v", err)
	}

	return nil
}

// Balance reads the user's current pax balance.
func (s *RewardService) Balance(userID uuid.UUID) (int64, error) {
	var balance int64
	err := s.db.QueryRow(
		"SELECT pax_balance FROM users WHERE id = $1",
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %v", err)
	}
	return balance, nil
}

func (s *RewardService) Profile(userID uuid.UUID) (*models.User, error) {
	user := &models.User{ID: userID}
	var memberUntil, lastClaim sql.NullTime

	err := s.db.QueryRow(
		`SELECT username, pax_balance, is_member, member_until, claim_streak, last_daily_reward
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.Username, &user.PaxBalance, &user.IsMember, &memberUntil, &user.ClaimStreak, &lastClaim)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %v", err)
	}

	if memberUntil.Valid {
		user.MemberUntil = &memberUntil.Time
	}
	if lastClaim.Valid {
		user.LastDailyReward = &lastClaim.Time
	}
	return user, nil
}

// UpdateWordStats upserts the per-user word game stats row. Wins extend the
// daily streak when the previous play was today or yesterday; losses leave
// streaks and fastest time untouched.
func (s *RewardService) UpdateWordStats(userID uuid.UUID, isWin bool, gameTimeSeconds *int) error {
	today := time.Now().UTC()
	todayStr := today.Format("2006-01-02")
	yesterdayStr := today.AddDate(0, 0, -1).Format("2006-01-02")

	var currentStreak, highestStreak, totalWordsGuessed, totalGamesPlayed int
	var lastPlayed sql.NullString
	var fastestTime sql.NullInt64

	err := s.db.QueryRow(
		`SELECT current_streak, highest_streak, last_played_date::text,
		        fastest_time, total_words_guessed, total_games_played
		 FROM word_game_stats WHERE user_id = $1`,
		userID,
	).Scan(&currentStreak, &highestStreak, &lastPlayed, &fastestTime, &totalWordsGuessed, &totalGamesPlayed)

	if err == sql.ErrNoRows {
		initialStreak := 0
		wordsGuessed := 0
		var initialFastest *int
		if isWin {
			initialStreak = 1
			wordsGuessed = 1
			initialFastest = gameTimeSeconds
		}

		_, err = s.db.Exec(
			`INSERT INTO word_game_stats (
				user_id, current_streak, highest_streak, last_played_date,
				fastest_time, total_words_guessed, total_games_played,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4::date, $5, $6, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			userID, initialStreak, initialStreak, todayStr, initialFastest, wordsGuessed,
		)
		if err != nil {
			return fmt.Errorf("failed to create word stats: %v", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read word stats: %v", err)
	}

	newStreak, newHighest := currentStreak, highestStreak
	if isWin {
		continued := lastPlayed.Valid &&
			(lastPlayed.String == todayStr || lastPlayed.String == yesterdayStr)
		if continued {
			newStreak = currentStreak + 1
		} else {
			newStreak = 1
		}
		if newStreak > newHighest {
			newHighest = newStreak
		}
	}

	newFastest := fastestTime
	if isWin && gameTimeSeconds != nil {
		if !fastestTime.Valid || int64(*gameTimeSeconds) < fastestTime.Int64 {
			newFastest = sql.NullInt64{Int64: int64(*gameTimeSeconds), Valid: true}
		}
	}

	wordsGuessed := 0
	if isWin {
		wordsGuessed = 1
	}

	_, err = s.db.Exec(
		`UPDATE word_game_stats
		 SET current_streak = $1,
		     highest_streak = $2,
		     last_played_date = $3::date,
		     fastest_time = $4,
		     total_words_guessed = total_words_guessed + $5,
		     total_games_played = total_games_played + 1,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = $6`,
		newStreak, newHighest, todayStr, newFastest, wordsGuessed, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word stats: %v", err)
	}

	log.Printf("word stats updated for %s: win=%v streak=%d games=%d",
		userID, isWin, newStreak, totalGamesPlayed+1)

	return nil
}

// Leaderboard returns the top word game players ordered by words guessed,
// then highest streak, then fastest time.
func (s *RewardService) Leaderboard(limit int) ([]models.WordLeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT u.username, w.current_streak, w.highest_streak, w.fastest_time,
		        w.total_words_guessed, w.total_games_played, w.updated_at::text
		 FROM word_game_stats w
		 JOIN users u ON w.user_id = u.id
		 WHERE w.total_words_guessed > 0
		 ORDER BY w.total_words_guessed DESC,
		          w.highest_streak DESC,
		          w.fastest_time ASC NULLS LAST
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %v", err)
	}
	defer rows.Close()

	entries := []models.WordLeaderboardEntry{}
	for rows.Next() {
		var entry models.WordLeaderboardEntry
		var fastest sql.NullInt64

		err := rows.Scan(&entry.Username, &entry.CurrentStreak, &entry.HighestStreak,
			&fastest, &entry.TotalWordsGuessed, &entry.TotalGamesPlayed, &entry.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %v", err)
		}

		if fastest.Valid {
			value := int(fastest.Int64)
			entry.FastestTime = &value
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// StatsFor returns one user's word game stats, or nil when they have none.
func (s *RewardService) StatsFor(userID uuid.UUID) (*models.WordLeaderboardEntry, error) {
	var entry models.WordLeaderboardEntry
	var fastest sql.NullInt64

	err := s.db.QueryRow(
		`SELECT u.username, w.current_streak, w.highest_streak, w.fastest_time,
		        w.total_words_guessed, w.total_games_played, w.updated_at::text
		 FROM word_game_stats w
		 JOIN users u ON w.user_id = u.id
		 WHERE w.user_id = $1`,
		userID,
	).Scan(&entry.Username, &entry.CurrentStreak, &entry.HighestStreak,
		&fastest, &entry.TotalWordsGuessed, &entry.TotalGamesPlayed, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read word stats: %v", err)
	}

	if fastest.Valid {
		value := int(fastest.Int64)
		entry.FastestTime = &value
	}

	return &entry, nil
}
