package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creaturegrove-backend/internal/models"
	"creaturegrove-backend/internal/services"
)

type WordHandler struct {
	wordService   *services.WordService
	rewardService *services.RewardService
}

func NewWordHandler(wordService *services.WordService, rewardService *services.RewardService) *WordHandler {
	return &WordHandler{
		wordService:   wordService,
		rewardService: rewardService,
	}
}

// userIDFrom pulls the authenticated user id set by the auth middleware.
func userIDFrom(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	return userID, true
}

// respondServiceError maps the service error kinds onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var cooldown *services.CooldownError
	switch {
	case errors.Is(err, services.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{
			"error":               "This feature is only available to members. Please activate a membership code to continue.",
			"requires_membership": true,
		})
	case errors.As(err, &cooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             "Game in cooldown period",
			"remaining_seconds": cooldown.Remaining,
		})
	case errors.Is(err, services.ErrLockHeld):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Another game is already in progress"})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Session expired"})
	case errors.Is(err, services.ErrSignatureMissing):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing session signature"})
	case errors.Is(err, services.ErrSignatureInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid session signature"})
	case errors.Is(err, services.ErrDuplicateClaim):
		c.JSON(http.StatusConflict, gin.H{"error": "Reward already claimed for this session"})
	case errors.Is(err, services.ErrWindowExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum rewards per window exceeded"})
	case errors.Is(err, services.ErrInvalidGameType), errors.Is(err, services.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *WordHandler) NewGame(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	resp, err := h.wordService.Open(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WordHandler) Guess(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req models.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	signature := c.GetHeader("X-Session-Signature")

	resp, err := h.wordService.Guess(userID, req.SessionID, req.Guess, signature)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WordHandler) Refresh(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	signature := c.GetHeader("X-Session-Signature")

	resp, err := h.wordService.Refresh(userID, sessionID, signature)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WordHandler) ActiveGame(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	resp, err := h.wordService.Active(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WordHandler) CooldownStatus(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	status, err := h.wordService.CooldownStatus(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *WordHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	entries, err := h.rewardService.Leaderboard(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *WordHandler) MyStats(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	stats, err := h.rewardService.StatsFor(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
