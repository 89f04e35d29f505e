package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creaturegrove-backend/internal/models"
	"creaturegrove-backend/internal/services"
)

type ClaimHandler struct {
	claimService  *services.ClaimService
	rewardService *services.RewardService
}

func NewClaimHandler(claimService *services.ClaimService, rewardService *services.RewardService) *ClaimHandler {
	return &ClaimHandler{
		claimService:  claimService,
		rewardService: rewardService,
	}
}

func (h *ClaimHandler) Claim(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	result, err := h.claimService.Claim(userID)
	if errors.Is(err, services.ErrNotMember) {
		c.JSON(http.StatusOK, gin.H{
			"success":             false,
			"message":             "This feature is only available to members. Please activate a membership code to continue.",
			"requires_membership": true,
		})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ClaimHandler) ResetStreak(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	reset, err := h.claimService.ResetStreak(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !reset {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Still within claim window"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ClaimHandler) Status(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	status, err := h.claimService.Status(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

type gameSessionRequest struct {
	GameType models.GameType `json:"game_type" binding:"required"`
}

// CreateGameSession hands out the signed token the client must present when
// claiming rewards later.
func (h *ClaimHandler) CreateGameSession(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req gameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.rewardService.CreateGameSession(userID, req.GameType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.String(http.StatusOK, token)
}

// GameReward pays out the pax a finished game earned. Gate failures come
// back inside a success=false envelope the way clients expect.
func (h *ClaimHandler) GameReward(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req models.GameRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	balance, err := h.rewardService.GrantPax(userID, &req)
	if err != nil {
		c.JSON(http.StatusOK, models.GameRewardResponse{
			Success: false,
			Error:   rewardErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, models.GameRewardResponse{
		Success:    true,
		NewBalance: balance,
	})
}

func (h *ClaimHandler) ScrollReward(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req models.GameRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.rewardService.GrantScroll(userID, req.SessionToken, req.GameType, req.Timestamp)
	if err != nil {
		c.JSON(http.StatusOK, models.GameRewardResponse{
			Success: false,
			Error:   rewardErrorMessage(err),
		})
		return
	}

	balance, err := h.rewardService.Balance(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GameRewardResponse{
		Success:    true,
		NewBalance: balance,
	})
}

func rewardErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidGameType):
		return "Invalid game type"
	case errors.Is(err, services.ErrInvalidScore):
		return "Invalid score"
	case errors.Is(err, services.ErrDuplicateClaim):
		return "Reward already claimed for this session"
	case errors.Is(err, services.ErrWindowExceeded):
		return "Maximum rewards per window exceeded"
	case errors.Is(err, services.ErrSignatureInvalid),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrSessionNotFound):
		return "Invalid game session"
	default:
		return "Internal server error"
	}
}
