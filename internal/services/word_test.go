package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"creaturegrove-backend/internal/models"
)

func testWordService() *WordService {
	return &WordService{
		sessions: make(map[string]*models.WordGameSession),
		signer:   NewSigner("test-secret"),
	}
}

func TestCleanupDropsEndedSessionsPastTimer(t *testing.T) {
	s := testWordService()
	now := time.Now().Unix()
	timer := int64(GameTimer.Seconds())

	s.sessions["won-old"] = &models.WordGameSession{
		SessionID: "won-old",
		Game:      models.NewWordGame("apple"),
		CreatedAt: now - timer,
		Ended:     true,
	}
	s.sessions["won-fresh"] = &models.WordGameSession{
		SessionID: "won-fresh",
		Game:      models.NewWordGame("apple"),
		CreatedAt: now - 10,
		Ended:     true,
	}
	s.sessions["running"] = &models.WordGameSession{
		SessionID: "running",
		Game:      models.NewWordGame("apple"),
		CreatedAt: now - 10,
	}
	// Past the timer but not yet ended: the timer task owns settling it,
	// so cleanup must leave it alone.
	s.sessions["unsettled"] = &models.WordGameSession{
		SessionID: "unsettled",
		Game:      models.NewWordGame("apple"),
		CreatedAt: now - timer,
	}

	s.Cleanup()

	if _, ok := s.sessions["won-old"]; ok {
		t.Error("ended session past the game timer should be dropped")
	}
	if _, ok := s.sessions["won-fresh"]; !ok {
		t.Error("ended session inside the timer window should be kept")
	}
	if _, ok := s.sessions["running"]; !ok {
		t.Error("running session should be kept")
	}
	if _, ok := s.sessions["unsettled"]; !ok {
		t.Error("unsettled session should be left for its timer task")
	}
}

func TestRefreshChecksSignatureBeforeBoard(t *testing.T) {
	s := testWordService()
	userID := uuid.New()

	game := models.NewWordGame("apple")
	game.Pad()
	s.sessions["sid-1"] = &models.WordGameSession{
		SessionID: "sid-1",
		UserID:    userID,
		Game:      game,
		CreatedAt: time.Now().Unix(),
		Ended:     true,
	}

	if _, err := s.Refresh(userID, "sid-1", ""); !errors.Is(err, ErrSignatureMissing) {
		t.Errorf("missing signature should be rejected, got %v", err)
	}
	if _, err := s.Refresh(userID, "sid-1", "bogus"); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("bad signature should be rejected before the board is read, got %v", err)
	}

	resp, err := s.Refresh(userID, "sid-1", s.signer.SignSession("sid-1"))
	if err != nil {
		t.Fatalf("signed refresh failed: %v", err)
	}
	if resp.Game.Solution != "apple" {
		t.Errorf("ended board should reveal the solution, got %q", resp.Game.Solution)
	}
}
