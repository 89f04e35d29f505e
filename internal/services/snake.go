package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"creaturegrove-backend/internal/models"

	"github.com/google/uuid"
)

const (
	snakeTickRate       = 100 * time.Millisecond
	snakeGridWidth      = 20
	snakeGridHeight     = 20
	snakeTurnInterval   = 50 * time.Millisecond
	snakeSessionTimeout = 2 * time.Hour
	maxConcurrentSnakes = 1000
)

// SnakeSession is one player's live game behind a websocket. Outbound frames
// go through the buffered channel; the writer goroutine owns the socket.
type SnakeSession struct {
	ID     string
	UserID uuid.UUID

	mu             sync.Mutex
	game           *models.SnakeGame
	directionQueue []models.Direction
	lastUpdate     time.Time
	token          string
	createdAt      time.Time

	Outbound chan []byte
	done     chan struct{}
}

// Done closes when the session is torn down.
func (session *SnakeSession) Done() <-chan struct{} {
	return session.done
}

// SnakeService runs the server-side snake games. Each websocket connection
// gets its own session and tick loop; rewards flow through the same gates as
// every other game.
type SnakeService struct {
	mu       sync.Mutex
	sessions map[string]*SnakeSession

	reward *RewardService
}

func NewSnakeService(reward *RewardService) *SnakeService {
	s := &SnakeService{
		sessions: make(map[string]*SnakeSession),
		reward:   reward,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.cleanupExpired()
		}
	}()

	return s
}

func (s *SnakeService) cleanupExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if now.Sub(session.createdAt) > snakeSessionTimeout {
			close(session.done)
			delete(s.sessions, id)
		}
	}
}

// StartSession registers a reward session for the connection and begins the
// tick loop. The game itself stays idle until the first direction arrives.
func (s *SnakeService) StartSession(userID uuid.UUID) (*SnakeSession, error) {
	s.mu.Lock()
	if len(s.sessions) >= maxConcurrentSnakes {
		s.mu.Unlock()
		return nil, ErrLockHeld
	}
	s.mu.Unlock()

	token, err := s.reward.CreateGameSession(userID, models.GameTypeSnake)
	if err != nil {
		return nil, err
	}

	session := &SnakeSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		game:       models.NewSnakeGame(snakeGridWidth, snakeGridHeight),
		lastUpdate: time.Now(),
		token:      token,
		createdAt:  time.Now(),
		Outbound:   make(chan []byte, 64),
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	go s.runTicks(session)

	return session, nil
}

// CloseSession tears the session down when the websocket goes away.
func (s *SnakeService) CloseSession(session *SnakeSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		close(session.done)
		delete(s.sessions, session.ID)
	}
}

// removeAfter keeps a finished session around briefly so the client can read
// the final board, then drops it.
func (s *SnakeService) removeAfter(session *SnakeSession, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.CloseSession(session)
	})
}

// HandleMessage processes one inbound control frame.
func (s *SnakeService) HandleMessage(session *SnakeSession, msg *models.SnakeMessage) {
	session.mu.Lock()
	defer session.mu.Unlock()

	switch msg.Type {
	case models.SnakeMsgStart:
		session.game = models.NewSnakeGame(snakeGridWidth, snakeGridHeight)
		session.directionQueue = nil
		session.lastUpdate = time.Now()
		// Started stays false until the first direction arrives.
		session.sendState()

	case models.SnakeMsgChangeDirection:
		if !session.game.Started {
			session.game.Started = true
			session.game.Direction = msg.Direction
			session.lastUpdate = time.Now()
			return
		}

		current := session.game.Direction
		if n := len(session.directionQueue); n > 0 {
			current = session.directionQueue[n-1]
		}
		if !session.game.CanChangeDirection(current, msg.Direction) {
			return
		}
		if n := len(session.directionQueue); n > 0 && session.directionQueue[n-1] == msg.Direction {
			return
		}
		session.directionQueue = append(session.directionQueue, msg.Direction)

	default:
		log.Printf("unexpected snake message type %q from session %s", msg.Type, session.ID)
	}
}

// sendState pushes the current board. Caller holds the session lock.
func (session *SnakeSession) sendState() {
	data, err := json.Marshal(session.game)
	if err != nil {
		return
	}
	select {
	case session.Outbound <- data:
	default:
		// Channel full; the next tick will carry the fresher state.
	}
}

func (session *SnakeSession) sendControl(msgType models.SnakeMessageType) {
	data, err := json.Marshal(models.SnakeMessage{Type: msgType})
	if err != nil {
		return
	}
	select {
	case session.Outbound <- data:
	default:
	}
}

func (s *SnakeService) runTicks(session *SnakeSession) {
	ticker := time.NewTicker(snakeTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-session.done:
			return
		case <-ticker.C:
		}

		session.mu.Lock()
		if !session.game.Started {
			session.mu.Unlock()
			continue
		}

		now := time.Now()
		if now.Sub(session.lastUpdate) >= snakeTurnInterval && len(session.directionQueue) > 0 {
			session.game.Direction = session.directionQueue[0]
			session.directionQueue = session.directionQueue[1:]
			session.lastUpdate = now
		}

		ate, eaten := session.game.Update()
		score := session.game.Score
		token := session.token
		gameOver := session.game.GameOver
		session.mu.Unlock()

		if ate {
			s.payFood(session, token, eaten, score)
		}

		session.mu.Lock()
		session.sendState()
		session.mu.Unlock()

		if gameOver {
			session.mu.Lock()
			session.sendControl(models.SnakeMsgGameOver)
			finalScore := session.game.Score
			session.mu.Unlock()

			log.Printf("snake game over for session %s, score %d", session.ID, finalScore)
			s.removeAfter(session, 5*time.Second)
			return
		}
	}
}

// payFood applies the reward for an eaten piece. Regular food pays pax only
// at every fifth point, scaling with the score; scroll food pays a scroll.
func (s *SnakeService) payFood(session *SnakeSession, token string, eaten models.FoodType, score int) {
	now := time.Now().Unix()

	switch eaten {
	case models.FoodRegular:
		if score%5 != 0 {
			return
		}

		var pax int
		switch {
		case score < 20:
			pax = 1
		case score < 35:
			pax = 2
		case score < 60:
			pax = 3
		default:
			pax = 4
		}

		balance, err := s.reward.GrantPax(session.UserID, &models.GameRewardRequest{
			SessionToken: token,
			GameType:     models.GameTypeSnake,
			Score:        pax,
			Timestamp:    now,
		})
		if err != nil {
			log.Printf("failed to grant snake pax for session %s: %v", session.ID, err)
			return
		}

		session.mu.Lock()
		session.game.NewBalance = &balance
		session.mu.Unlock()

	case models.FoodScroll:
		err := s.reward.GrantScroll(session.UserID, token, models.GameTypeSnake, now)
		if err != nil {
			log.Printf("failed to grant snake scroll for session %s: %v", session.ID, err)
			return
		}

		session.mu.Lock()
		session.sendControl(models.SnakeMsgScrollCollected)
		session.mu.Unlock()
	}
}
