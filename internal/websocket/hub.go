package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
)

// FeedEvent is the message pushed to connected admin consoles.
type FeedEvent struct {
	Type      string             `json:"type"` // "activity"
	Activity  *model.ActivityLog `json:"activity,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Client is one admin console session
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans out audit entries to every connected admin session.
type Hub struct {
	// UserID -> sessions (an admin may have multiple tabs open)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run owns the client maps. Call once from main as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Activity feed client connected", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": h.sessionCount(client.UserID),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			// a session can be unregistered twice (slow-consumer drop plus
			// its own ReadPump exit); only the removal that finds it closes
			// the Send channel
			found := false
			if sessions, ok := h.clients[client.UserID]; ok {
				remaining := make([]*Client, 0, len(sessions))
				for _, c := range sessions {
					if c == client {
						found = true
						continue
					}
					remaining = append(remaining, c)
				}
				if found {
					if len(remaining) == 0 {
						delete(h.clients, client.UserID)
					} else {
						h.clients[client.UserID] = remaining
					}
					close(client.Send)
				}
			}
			h.mu.Unlock()
			if found {
				logger.Info("Activity feed client disconnected", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, sessions := range h.clients {
				for _, client := range sessions {
					select {
					case client.Send <- message:
					default:
						// slow consumer, drop the session rather than block the hub
						go h.Unregister(client)
						logger.Warn("Feed client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) sessionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastActivity implements service.ActivityBroadcaster.
func (h *Hub) BroadcastActivity(entry *model.ActivityLog) {
	data, err := json.Marshal(FeedEvent{
		Type:      "activity",
		Activity:  entry,
		Timestamp: time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal feed event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// the feed is best-effort; the audit entry is already persisted
		logger.Warn("Feed broadcast channel full, event dropped", nil)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ConnectedAdmins returns how many distinct admins are watching the feed.
func (h *Hub) ConnectedAdmins() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
