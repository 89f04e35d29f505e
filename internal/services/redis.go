package services

import (
	"context"
	"fmt"
	"time"

	"creaturegrove-backend/internal/config"
	"creaturegrove-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	service := &RedisService{
		client: client,
		ctx:    ctx,
	}

	return service, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// --- cooldowns ---

func (s *RedisService) ArmCooldown(keyFormat, userID string, ttl time.Duration) error {
	key := fmt.Sprintf(keyFormat, userID)
	return s.client.Set(s.ctx, key, "1", ttl).Err()
}

// CooldownRemaining returns the seconds left on a cooldown, or 0 when none
// is active. Keys without a TTL count as expired.
func (s *RedisService) CooldownRemaining(keyFormat, userID string) (int64, error) {
	key := fmt.Sprintf(keyFormat, userID)

	ttl, err := s.client.TTL(s.ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read cooldown ttl: %v", err)
	}

	if ttl <= 0 {
		return 0, nil
	}
	return int64(ttl.Seconds()), nil
}

func (s *RedisService) ClearCooldown(keyFormat, userID string) error {
	key := fmt.Sprintf(keyFormat, userID)
	return s.client.Del(s.ctx, key).Err()
}

// --- session-creation lock ---

func (s *RedisService) AcquireSessionLock(userID string) (bool, error) {
	key := fmt.Sprintf(KeyWordSessionLock, userID)
	return s.client.SetNX(s.ctx, key, "1", SessionLockTTL).Result()
}

func (s *RedisService) ReleaseSessionLock(userID string) error {
	key := fmt.Sprintf(KeyWordSessionLock, userID)
	return s.client.Del(s.ctx, key).Err()
}

// --- word game markers ---

// SetActiveWordGame arms the "a game is open" marker. The TTL tracks the
// remaining game time so an abandoned game frees up automatically.
func (s *RedisService) SetActiveWordGame(userID, sessionID string, ttl time.Duration) error {
	key := fmt.Sprintf(KeyWordGameActive, userID)
	return s.client.Set(s.ctx, key, sessionID, ttl).Err()
}

func (s *RedisService) GetActiveWordGame(userID string) (string, error) {
	key := fmt.Sprintf(KeyWordGameActive, userID)

	sessionID, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active word game: %v", err)
	}

	return sessionID, nil
}

func (s *RedisService) ClearActiveWordGame(userID string) error {
	key := fmt.Sprintf(KeyWordGameActive, userID)
	return s.client.Del(s.ctx, key).Err()
}

// --- reward claim sessions ---

func (s *RedisService) StoreGameSession(userID, sessionID string, gameType models.GameType) error {
	key := fmt.Sprintf(KeyGameSession, userID, sessionID)
	return s.client.Set(s.ctx, key, string(gameType), RewardSession).Err()
}

func (s *RedisService) GameSessionExists(userID, sessionID string) (bool, error) {
	key := fmt.Sprintf(KeyGameSession, userID, sessionID)

	count, err := s.client.Exists(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check game session: %v", err)
	}

	return count > 0, nil
}

func (s *RedisService) DeleteGameSession(userID, sessionID string) error {
	key := fmt.Sprintf(KeyGameSession, userID, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// MarkRewardClaimed sets the single-shot marker for a session token. A false
// return means some other request already claimed it. The marker has no
// expiry; single-claim games stay claimed.
func (s *RedisService) MarkRewardClaimed(userID, token string) (bool, error) {
	key := fmt.Sprintf(KeyRewardClaimed, userID, token)
	return s.client.SetNX(s.ctx, key, "1", 0).Result()
}

// --- windowed reward limiter ---

// reserveWindowScript atomically checks the running total against a cap and
// only then increments. Returns -1 when the reservation would bust the cap,
// otherwise the new total. The expiry is refreshed on every accepted
// increment.
var reserveWindowScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local increment = tonumber(ARGV[1])
	if current + increment > tonumber(ARGV[2]) then
		return -1
	end
	local total = redis.call('INCRBY', KEYS[1], increment)
	redis.call('EXPIRE', KEYS[1], ARGV[3])
	return total
`)

// ReserveWindow reserves amount units inside the user's bucketed reward
// window for the given kind. It returns ErrWindowExceeded when the cap would
// be busted.
func (s *RedisService) ReserveWindow(userID string, kind models.GameType, amount, cap int64, window time.Duration) error {
	bucket := time.Now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf(KeyRewardWindow, userID, kind, bucket)

	total, err := reserveWindowScript.Run(s.ctx, s.client, []string{key}, amount, cap, int64(window.Seconds())).Int64()
	if err != nil {
		return fmt.Errorf("failed to reserve reward window: %v", err)
	}

	if total < 0 {
		return ErrWindowExceeded
	}
	return nil
}

// --- per-action rate limiting ---

func (s *RedisService) CheckRateLimit(userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}
