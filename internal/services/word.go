package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"creaturegrove-backend/internal/models"
	"creaturegrove-backend/internal/words"

	"github.com/google/uuid"
)

// WordService owns the in-memory registry of word game sessions and drives
// each game from open to its terminal state. The registry lock guards map
// access and in-memory mutation only; it is never held across a redis or
// database round trip. Handlers copy what they need, release, then do I/O.
type WordService struct {
	mu       sync.Mutex
	sessions map[string]*models.WordGameSession

	redis      *RedisService
	reward     *RewardService
	membership *MembershipService
	signer     *Signer
}

func NewWordService(redisService *RedisService, reward *RewardService, membership *MembershipService, signer *Signer) *WordService {
	return &WordService{
		sessions:   make(map[string]*models.WordGameSession),
		redis:      redisService,
		reward:     reward,
		membership: membership,
		signer:     signer,
	}
}

const (
	wordWinPax     = 25
	wordWinScrolls = 1
)

// Cleanup drops ended sessions once their game timer has run out. The board
// stays readable inside the timer window so a late refresh can still show
// the final state; a running session past the timer is left for its timer
// task, which settles the loss and marks it ended.
func (s *WordService) Cleanup() {
	now := time.Now().Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.Ended && now-session.CreatedAt >= int64(GameTimer.Seconds()) {
			delete(s.sessions, id)
		}
	}
}

// Open starts a new word game. The reward session is created first so a
// solved game can pay out; the active marker in redis stops a second open
// while this one runs.
func (s *WordService) Open(userID uuid.UUID) (*models.NewWordGameResponse, error) {
	isMember, err := s.membership.IsMember(userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	s.Cleanup()

	uid := userID.String()

	remaining, err := s.redis.CooldownRemaining(KeyWordGameCooldown, uid)
	if err == nil && remaining > 0 {
		return nil, &CooldownError{Remaining: remaining, IsWin: remaining > int64(LossCooldown.Seconds())}
	}
	if err != nil {
		// A cooldown probe failure blocks the open rather than granting
		// a free game.
		return nil, err
	}

	active, err := s.redis.GetActiveWordGame(uid)
	if err != nil {
		return nil, err
	}
	if active != "" {
		s.mu.Lock()
		_, known := s.sessions[active]
		s.mu.Unlock()

		if known {
			return nil, ErrLockHeld
		}
		// The marker survived a restart that lost the session. Clear it
		// and start fresh.
		if err := s.redis.ClearActiveWordGame(uid); err != nil {
			return nil, err
		}
	}

	// The session lock stays held until the active marker is written, so
	// two concurrent opens cannot both pass the active check.
	token, release, err := s.reward.BeginWordGameSession(userID)
	if err != nil {
		return nil, err
	}
	defer release()

	sessionID := uuid.New().String()
	if err := s.redis.SetActiveWordGame(uid, sessionID, GameTimer); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	game := models.NewWordGame(words.Random())
	session := &models.WordGameSession{
		SessionID:        sessionID,
		UserID:           userID,
		Game:             game,
		CreatedAt:        now,
		LastGuessTime:    now,
		GameSessionToken: token,
	}

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	time.AfterFunc(GameTimer, func() {
		s.expire(sessionID)
	})

	public := game.Public(false)
	public.CreatedAt = now

	return &models.NewWordGameResponse{
		SessionID:        sessionID,
		SessionSignature: s.signer.SignSession(sessionID),
		Game:             public,
	}, nil
}

// expire is the deferred timer task. It re-checks under the lock so a race
// with a concurrent guess cannot double-apply the loss.
func (s *WordService) expire(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.Ended {
		s.mu.Unlock()
		return
	}

	session.Game.Pad()
	session.Ended = true
	userID := session.UserID
	secret := session.Game.SecretWord
	s.mu.Unlock()

	log.Printf("word game %s timed out for %s, the word was %q", sessionID, userID, secret)

	s.finishLoss(userID)
}

// finishLoss applies the loss bookkeeping after the lock is released.
func (s *WordService) finishLoss(userID uuid.UUID) {
	if err := s.reward.UpdateWordStats(userID, false, nil); err != nil {
		log.Printf("failed to update word stats for %s: %v", userID, err)
	}

	uid := userID.String()
	if err := s.redis.ClearActiveWordGame(uid); err != nil {
		log.Printf("failed to clear active word game for %s: %v", userID, err)
	}
	if err := s.redis.ArmCooldown(KeyWordGameCooldown, uid, LossCooldown); err != nil {
		log.Printf("failed to arm loss cooldown for %s: %v", userID, err)
	}
}

// finishWin applies the win bookkeeping and pays the reward. It returns the
// new balance when the grant succeeded.
func (s *WordService) finishWin(userID uuid.UUID, token string, gameTimeSeconds int) *int64 {
	gameTime := gameTimeSeconds
	if err := s.reward.UpdateWordStats(userID, true, &gameTime); err != nil {
		log.Printf("failed to update word stats for %s: %v", userID, err)
	}

	uid := userID.String()
	if err := s.redis.ClearActiveWordGame(uid); err != nil {
		log.Printf("failed to clear active word game for %s: %v", userID, err)
	}
	if err := s.redis.ArmCooldown(KeyWordGameCooldown, uid, WinCooldown); err != nil {
		log.Printf("failed to arm win cooldown for %s: %v", userID, err)
	}

	now := time.Now().Unix()
	balance, err := s.reward.GrantPax(userID, &models.GameRewardRequest{
		SessionToken: token,
		GameType:     models.GameTypeWord,
		Score:        wordWinPax,
		Timestamp:    now,
	})
	if err != nil {
		log.Printf("failed to grant win pax for %s: %v", userID, err)
		return nil
	}

	if err := s.reward.GrantScroll(userID, token, models.GameTypeWord, now); err != nil {
		log.Printf("failed to grant win scroll for %s: %v", userID, err)
	}

	return &balance
}

// Guess applies one guess to the session. The signature is checked before
// any state changes; a bad guess or a too-fast guess comes back inside a
// normal response with the board unchanged.
func (s *WordService) Guess(userID uuid.UUID, sessionID, guess, signature string) (*models.GuessResponse, error) {
	if signature == "" {
		return nil, ErrSignatureMissing
	}
	if !s.signer.VerifySession(sessionID, signature) {
		return nil, ErrSignatureInvalid
	}

	now := time.Now().Unix()

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	if session.Ended {
		public := session.Game.Public(true)
		s.mu.Unlock()
		return &models.GuessResponse{
			Correct: false,
			Game:    public,
			Message: "Times up! Game over.",
			Tiles:   []models.LetterTile{},
		}, nil
	}

	if now-session.CreatedAt >= int64(GameTimer.Seconds()) {
		session.Game.Pad()
		session.Ended = true
		secret := session.Game.SecretWord
		public := session.Game.Public(true)
		s.mu.Unlock()

		s.finishLoss(userID)

		return &models.GuessResponse{
			Correct: false,
			Game:    public,
			Message: fmt.Sprintf("Time's up! The word was '%s'.", secret),
			Tiles:   []models.LetterTile{},
		}, nil
	}

	if now-session.LastGuessTime < int64(MinGuessInterval.Seconds()) {
		public := session.Game.Public(false)
		s.mu.Unlock()
		return &models.GuessResponse{
			Correct: false,
			Game:    public,
			Message: "Please wait before making another guess",
			Tiles:   []models.LetterTile{},
		}, nil
	}
	session.LastGuessTime = now

	correct, tiles, err := session.Game.ProcessGuess(guess)
	if err != nil {
		public := session.Game.Public(false)
		s.mu.Unlock()

		badGuess, ok := err.(*models.BadGuessError)
		if !ok {
			return nil, err
		}
		return &models.GuessResponse{
			Correct: false,
			Game:    public,
			Message: badGuess.Message,
			Tiles:   []models.LetterTile{},
		}, nil
	}

	var (
		message string
		token   string
		secret  = session.Game.SecretWord
		lost    bool
	)

	switch {
	case correct:
		session.Ended = true
		token = session.GameSessionToken
		message = fmt.Sprintf("Correct! You've solved the puzzle. You can start a new game in %d minutes.",
			int64(WinCooldown.Minutes()))
	case session.Game.Exhausted():
		session.Ended = true
		lost = true
		message = fmt.Sprintf("No more guesses left. The word was '%s'. You can start a new game in %d seconds.",
			secret, int64(LossCooldown.Seconds()))
	default:
		message = "Incorrect guess. Try again."
	}

	ended := session.Ended
	createdAt := session.CreatedAt
	public := session.Game.Public(ended)
	s.mu.Unlock()

	var newBalance *int64
	if correct {
		newBalance = s.finishWin(userID, token, int(now-createdAt))
	} else if lost {
		s.finishLoss(userID)
	}

	return &models.GuessResponse{
		Correct:    correct,
		Game:       public,
		Message:    message,
		Tiles:      tiles,
		NewBalance: newBalance,
	}, nil
}

// Refresh returns the current board. An expired timer is applied here the
// same way a guess would apply it.
func (s *WordService) Refresh(userID uuid.UUID, sessionID, signature string) (*models.RefreshResponse, error) {
	if signature == "" {
		return nil, ErrSignatureMissing
	}
	if !s.signer.VerifySession(sessionID, signature) {
		return nil, ErrSignatureInvalid
	}

	now := time.Now().Unix()

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	if session.Ended {
		public := session.Game.Public(true)
		s.mu.Unlock()
		return &models.RefreshResponse{Game: public}, nil
	}

	if now-session.CreatedAt >= int64(GameTimer.Seconds()) {
		session.Game.Pad()
		session.Ended = true
		public := session.Game.Public(true)
		s.mu.Unlock()

		s.finishLoss(userID)

		return &models.RefreshResponse{Game: public}, nil
	}

	if now-session.CreatedAt >= int64(SessionExpiry.Seconds()) {
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}

	public := session.Game.Public(false)
	s.mu.Unlock()

	return &models.RefreshResponse{Game: public}, nil
}

// Active returns the user's open session, if one exists on this node. A
// redis marker without a matching in-memory session is a leftover from a
// restart and is cleared.
func (s *WordService) Active(userID uuid.UUID) (*models.NewWordGameResponse, error) {
	uid := userID.String()

	active, err := s.redis.GetActiveWordGame(uid)
	if err != nil {
		return nil, err
	}
	if active == "" {
		return nil, ErrSessionNotFound
	}

	now := time.Now().Unix()

	s.mu.Lock()
	var (
		foundID string
		found   *models.WordGameSession
	)
	for id, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if now-session.CreatedAt >= int64(GameTimer.Seconds()) {
			continue
		}
		if found == nil || session.CreatedAt > found.CreatedAt {
			foundID = id
			found = session
		}
	}

	if found == nil {
		s.mu.Unlock()
		if err := s.redis.ClearActiveWordGame(uid); err != nil {
			log.Printf("failed to clear stale active word game for %s: %v", userID, err)
		}
		return nil, ErrSessionNotFound
	}

	public := found.Game.Public(found.Ended)
	public.CreatedAt = found.CreatedAt
	s.mu.Unlock()

	return &models.NewWordGameResponse{
		SessionID:        foundID,
		SessionSignature: s.signer.SignSession(foundID),
		Game:             public,
	}, nil
}

// CooldownStatus reports whether the user may open a game and how long they
// must otherwise wait. Anything longer than the loss cooldown can only be a
// win cooldown.
func (s *WordService) CooldownStatus(userID uuid.UUID) (*models.WordCooldownStatus, error) {
	isMember, err := s.membership.IsMember(userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return &models.WordCooldownStatus{
			InCooldown:         true,
			RequiresMembership: true,
		}, nil
	}

	remaining, err := s.redis.CooldownRemaining(KeyWordGameCooldown, userID.String())
	if err != nil {
		return nil, err
	}

	if remaining <= 0 {
		return &models.WordCooldownStatus{}, nil
	}

	return &models.WordCooldownStatus{
		InCooldown:       true,
		RemainingSeconds: remaining,
		IsWinCooldown:    remaining > int64(LossCooldown.Seconds()),
	}, nil
}
