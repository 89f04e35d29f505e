package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creaturegrove-backend/internal/services"
)

type MagicButtonHandler struct {
	buttonService *services.MagicButtonService
}

func NewMagicButtonHandler(buttonService *services.MagicButtonService) *MagicButtonHandler {
	return &MagicButtonHandler{buttonService: buttonService}
}

func (h *MagicButtonHandler) Press(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	result, err := h.buttonService.Press(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
