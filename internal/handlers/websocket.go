package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/arnold/stridegoals-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventGoalUpdated     = "goal_updated"
	EventDivisionUpdated = "division_updated"
	EventProgressUpdated = "progress_updated"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	GoalID string      `json:"goalId,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Hub manages WebSocket connections per user, so edits made in one session
// show up live in the user's other sessions.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*websocket.Conn]bool // userID -> set of connections
}

// Global hub instance
var WS = &Hub{
	rooms: make(map[uuid.UUID]map[*websocket.Conn]bool),
}

func (h *Hub) register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[userID][conn] = true
	log.Printf("WS register: user %s connected (total: %d)", userID, len(h.rooms[userID]))
}

func (h *Hub) unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[userID]; ok {
		delete(conns, conn)
		log.Printf("WS unregister: user %s disconnected (remaining: %d)", userID, len(conns))
		if len(conns) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Broadcast sends an event to all of a user's connections.
func (h *Hub) Broadcast(userID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[userID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}

	for c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// WebSocketUpgrade checks the upgrade request and validates the JWT.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket keeps one live connection in the caller's room.
func HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	WS.register(userID, c)
	defer WS.unregister(userID, c)

	// Keep the connection alive; clients send pings/keepalives.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
