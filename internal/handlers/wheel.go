package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creaturegrove-backend/internal/services"
)

type WheelHandler struct {
	wheelService *services.WheelService
}

func NewWheelHandler(wheelService *services.WheelService) *WheelHandler {
	return &WheelHandler{wheelService: wheelService}
}

func (h *WheelHandler) Spin(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	result, err := h.wheelService.Spin(userID)

	var cooldown *services.CooldownError
	if errors.As(err, &cooldown) {
		c.JSON(http.StatusOK, gin.H{
			"success":            false,
			"message":            "The wheel is still recharging.",
			"remaining_cooldown": cooldown.Remaining,
		})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *WheelHandler) Cooldown(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	remaining, err := h.wheelService.Cooldown(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining_cooldown": remaining})
}
