package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"creaturegrove-backend/internal/models"
	"creaturegrove-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	maxSnakeMessageSize = 1024
	snakeMessageRate    = 50 // inbound frames per second per connection
)

// SnakeHandler bridges a websocket to the snake game service. The socket is
// upgraded before authentication; the first text frame must carry the
// bearer token.
type SnakeHandler struct {
	snakeService *services.SnakeService
	jwtService   *services.JWTService
}

func NewSnakeHandler(snakeService *services.SnakeService, jwtService *services.JWTService) *SnakeHandler {
	return &SnakeHandler{
		snakeService: snakeService,
		jwtService:   jwtService,
	}
}

func (h *SnakeHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxSnakeMessageSize)

	// First frame carries "Bearer {token}".
	msgType, payload, err := conn.ReadMessage()
	if err != nil || msgType != websocket.TextMessage {
		log.Printf("Expected auth frame, got error: %v", err)
		return
	}

	text := string(payload)
	if !strings.HasPrefix(text, "Bearer ") {
		log.Printf("Auth frame missing bearer prefix")
		return
	}

	claims, err := h.jwtService.ValidateToken(strings.TrimSpace(strings.TrimPrefix(text, "Bearer ")))
	if err != nil {
		log.Printf("Invalid websocket auth token: %v", err)
		return
	}

	session, err := h.snakeService.StartSession(claims.UserID)
	if err != nil {
		log.Printf("Failed to start snake session: %v", err)
		return
	}
	defer h.snakeService.CloseSession(session)

	log.Printf("snake session %s opened for user %s", session.ID, claims.UserID)

	// Writer goroutine owns the connection for sends. A peer close right
	// after GameOver is a normal ending, not an error.
	go func() {
		gameOverSent := false
		for {
			select {
			case <-session.Done():
				return
			case frame := <-session.Outbound:
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					if !gameOverSent {
						log.Printf("websocket write error for session %s: %v", session.ID, err)
					}
					return
				}
				var control models.SnakeMessage
				if json.Unmarshal(frame, &control) == nil && control.Type == models.SnakeMsgGameOver {
					gameOverSent = true
				}
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(snakeMessageRate), snakeMessageRate)

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error for session %s: %v", session.ID, err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !limiter.Allow() {
			continue
		}

		var msg models.SnakeMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("invalid message on snake session %s", session.ID)
			continue
		}

		h.snakeService.HandleMessage(session, &msg)
	}
}
