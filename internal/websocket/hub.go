package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

const (
	maxFrameSize = 64 << 10
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
)

type assistantService interface {
	AskAssistant(ctx context.Context, req models.AssistantRequest) (*models.AssistantReply, error)
}

type rateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// Hub serves the chat widget over websocket. Each connection handles one
// exchange at a time: the next frame is read only after the reply is sent.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*websocket.Conn
	assistant   assistantService
	limiter     rateLimiter
	upgrader    websocket.Upgrader
	pongWait    time.Duration
}

func NewHub(assistant assistantService, limiter rateLimiter, frontendURL string) *Hub {
	allowed := strings.TrimRight(frontendURL, "/")
	return &Hub{
		connections: make(map[uuid.UUID]*websocket.Conn),
		assistant:   assistant,
		limiter:     limiter,
		pongWait:    pongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed == "*" || strings.TrimRight(origin, "/") == allowed
			},
		},
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	connID := h.registerConnection(conn)
	go h.serve(connID, conn, clientIP(r))
}

func (h *Hub) serve(connID uuid.UUID, conn *websocket.Conn, clientKey string) {
	defer h.unregisterConnection(connID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetReadLimit(maxFrameSize)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	var writeMu sync.Mutex
	write := func(msg models.WSMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	go func() {
		ticker := time.NewTicker(h.pongWait * 9 / 10)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error (%s): %v", connID, err)
			}
			return
		}

		// No reads happen while generating, so pongs cannot extend the deadline.
		conn.SetReadDeadline(time.Time{})
		msg := h.exchange(ctx, clientKey, data)
		conn.SetReadDeadline(time.Now().Add(h.pongWait))

		if err := write(msg); err != nil {
			return
		}
	}
}

// exchange turns one inbound frame into exactly one outbound message.
func (h *Hub) exchange(ctx context.Context, clientKey string, data []byte) models.WSMessage {
	var req models.AssistantRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorMessage("VALIDATION_ERROR", "Invalid request body")
	}
	if fields := req.Validate(); fields != nil {
		return errorMessage("VALIDATION_ERROR", "Validation failed")
	}

	if h.limiter != nil && !h.limiter.Allow(ctx, clientKey) {
		return errorMessage("RATE_LIMITED", "Too many requests. Please try again later.")
	}

	reply, err := h.assistant.AskAssistant(ctx, req)
	if err != nil {
		log.Printf("assistant exchange failed over websocket: %v", err)
		if errors.Is(err, services.ErrGenerationFailed) {
			return errorMessage("AI_ERROR", "Failed to get AI response")
		}
		return errorMessage("INTERNAL_ERROR", "An unexpected error occurred")
	}

	return models.WSMessage{Type: "reply", Payload: reply}
}

func errorMessage(code, message string) models.WSMessage {
	return models.WSMessage{
		Type:    "error",
		Payload: models.WSError{Code: code, Message: message},
	}
}

func (h *Hub) registerConnection(conn *websocket.Conn) uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New()
	h.connections[id] = conn

	log.Printf("WebSocket connected: %s (total: %d)", id, len(h.connections))
	return id
}

func (h *Hub) unregisterConnection(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[id]; ok {
		conn.Close()
		delete(h.connections, id)
	}

	log.Printf("WebSocket disconnected: %s", id)
}

// Count reports the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// CloseAll sends a close frame to every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range h.connections {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
