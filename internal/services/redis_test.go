package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"creaturegrove-backend/internal/config"
	"creaturegrove-backend/internal/models"
	"creaturegrove-backend/internal/services"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return redisService
}

func TestRedisCooldowns(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := "test-user-cooldowns"
	defer redisService.ClearCooldown(services.KeyWheelCooldown, userID)

	remaining, err := redisService.CooldownRemaining(services.KeyWheelCooldown, userID)
	if err != nil {
		t.Fatalf("failed to read cooldown: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected no cooldown, got %d", remaining)
	}

	if err := redisService.ArmCooldown(services.KeyWheelCooldown, userID, time.Minute); err != nil {
		t.Fatalf("failed to arm cooldown: %v", err)
	}

	remaining, err = redisService.CooldownRemaining(services.KeyWheelCooldown, userID)
	if err != nil {
		t.Fatalf("failed to read cooldown: %v", err)
	}
	if remaining <= 0 || remaining > 60 {
		t.Errorf("expected remaining in (0, 60], got %d", remaining)
	}
}

func TestRedisSessionLock(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := "test-user-lock"
	defer redisService.ReleaseSessionLock(userID)

	acquired, err := redisService.AcquireSessionLock(userID)
	if err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}
	if !acquired {
		t.Fatal("first acquire should succeed")
	}

	acquired, err = redisService.AcquireSessionLock(userID)
	if err != nil {
		t.Fatalf("failed to re-acquire lock: %v", err)
	}
	if acquired {
		t.Error("second acquire should fail while the lock is held")
	}

	if err := redisService.ReleaseSessionLock(userID); err != nil {
		t.Fatalf("failed to release lock: %v", err)
	}

	acquired, err = redisService.AcquireSessionLock(userID)
	if err != nil {
		t.Fatalf("failed to acquire released lock: %v", err)
	}
	if !acquired {
		t.Error("acquire should succeed after release")
	}
}

func TestRedisGameSessions(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := "test-user-sessions"
	sessionID := "test-session-123"
	defer redisService.DeleteGameSession(userID, sessionID)

	exists, err := redisService.GameSessionExists(userID, sessionID)
	if err != nil {
		t.Fatalf("failed to check session: %v", err)
	}
	if exists {
		t.Error("session should not exist before storing")
	}

	if err := redisService.StoreGameSession(userID, sessionID, models.GameTypeSnake); err != nil {
		t.Fatalf("failed to store session: %v", err)
	}

	exists, err = redisService.GameSessionExists(userID, sessionID)
	if err != nil {
		t.Fatalf("failed to check session: %v", err)
	}
	if !exists {
		t.Error("stored session should exist")
	}
}

func TestRedisRewardClaimMarker(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := "test-user-claims"
	token := fmt.Sprintf("test-claim-token-%d", time.Now().UnixNano())

	first, err := redisService.MarkRewardClaimed(userID, token)
	if err != nil {
		t.Fatalf("failed to mark claim: %v", err)
	}
	if !first {
		t.Fatal("first claim of a fresh token should succeed")
	}

	second, err := redisService.MarkRewardClaimed(userID, token)
	if err != nil {
		t.Fatalf("failed to re-mark claim: %v", err)
	}
	if second {
		t.Error("second claim of the same token should be rejected")
	}
}

func TestRedisReserveWindow(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := fmt.Sprintf("test-user-window-%d", time.Now().UnixNano())
	window := time.Minute

	if err := redisService.ReserveWindow(userID, models.GameTypeSnake, 150, 200, window); err != nil {
		t.Fatalf("first reservation should fit: %v", err)
	}

	err := redisService.ReserveWindow(userID, models.GameTypeSnake, 100, 200, window)
	if !errors.Is(err, services.ErrWindowExceeded) {
		t.Errorf("expected ErrWindowExceeded, got %v", err)
	}

	if err := redisService.ReserveWindow(userID, models.GameTypeSnake, 50, 200, window); err != nil {
		t.Errorf("reservation within the remaining budget should fit: %v", err)
	}
}

func TestBeginWordGameSessionHoldsLockUntilRelease(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	signer := services.NewSigner("test-secret")
	reward := services.NewRewardService(nil, redisService, signer)

	userID := uuid.New()
	uid := userID.String()
	defer redisService.ClearActiveWordGame(uid)
	defer redisService.ReleaseSessionLock(uid)

	token, release, err := reward.BeginWordGameSession(userID)
	if err != nil {
		t.Fatalf("failed to begin word session: %v", err)
	}
	if token == "" {
		t.Fatal("begin should return a session token")
	}

	// The lock is still held until the caller releases it, so a second
	// start cannot slip in before the active marker is written.
	if _, _, err := reward.BeginWordGameSession(userID); !errors.Is(err, services.ErrLockHeld) {
		t.Errorf("concurrent begin should fail while the lock is held, got %v", err)
	}

	if err := redisService.SetActiveWordGame(uid, "session-1", time.Minute); err != nil {
		t.Fatalf("failed to set active marker: %v", err)
	}
	release()

	if _, _, err := reward.BeginWordGameSession(userID); !errors.Is(err, services.ErrLockHeld) {
		t.Errorf("begin should fail while a game is active, got %v", err)
	}
}

func TestRedisRateLimit(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := fmt.Sprintf("test-user-ratelimit-%d", time.Now().UnixNano())

	for i := 0; i < 3; i++ {
		allowed, err := redisService.CheckRateLimit(userID, "test-action", 3, 2*time.Second)
		if err != nil {
			t.Fatalf("failed to check rate limit: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, err := redisService.CheckRateLimit(userID, "test-action", 3, 2*time.Second)
	if err != nil {
		t.Fatalf("failed to check rate limit: %v", err)
	}
	if allowed {
		t.Error("request over the limit should be rejected")
	}
}
