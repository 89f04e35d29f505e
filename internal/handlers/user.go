package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creaturegrove-backend/internal/services"
)

type UserHandler struct {
	rewardService     *services.RewardService
	membershipService *services.MembershipService
}

func NewUserHandler(rewardService *services.RewardService, membershipService *services.MembershipService) *UserHandler {
	return &UserHandler{
		rewardService:     rewardService,
		membershipService: membershipService,
	}
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	user, err := h.rewardService.Profile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Balance(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	balance, err := h.rewardService.Balance(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pax_balance": balance})
}

func (h *UserHandler) Membership(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	isMember, err := h.membershipService.IsMember(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_member": isMember})
}
