package studio

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// single-page frontend is served from another origin
		return true
	},
}

// Client is one websocket subscriber of a session's events.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	userID    string
	send      chan []byte
}

// Event is pushed to every client of a session when its state changes.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	JobID     string `json:"jobId,omitempty"`
	ItemID    string `json:"itemId,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event types.
const (
	EventGenerationStarted = "generation_started"
	EventHistoryUpdated    = "history_updated"
	EventVideoReady        = "video_ready"
	EventGenerationError   = "generation_error"
	EventStateChanged      = "state_changed"
)

// HandleWebSocket upgrades the connection and subscribes it to the
// session named in the query string.
func (c *Controller) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		log.Printf("Missing session parameter")
		conn.Close()
		return
	}
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = uuid.NewString()
	}

	client := &Client{
		conn:      conn,
		sessionID: sessionID,
		userID:    userID,
		send:      make(chan []byte, 256),
	}

	log.Printf("🔍 New WebSocket connection - Session: %s, User: %s", sessionID, userID)

	session := c.manager.GetOrCreateSession(sessionID)
	session.addClient(client, c.manager)

	go client.writePump()
	go client.readPump(session)
}

func (s *Session) addClient(client *Client, sm *SessionManager) {
	s.mu.Lock()
	s.clients[client.userID] = client
	s.touch()
	clientCount := len(s.clients)
	s.mu.Unlock()

	sm.metrics.mutex.Lock()
	sm.metrics.TotalConnections++
	total := sm.metrics.TotalConnections
	sm.metrics.mutex.Unlock()

	log.Printf("👤 Client %s joined session %s (Clients: %d, Total Connections: %d)",
		client.userID, s.id, clientCount, total)
}

func (s *Session) removeClient(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if client, exists := s.clients[userID]; exists {
		close(client.send)
		delete(s.clients, userID)
		s.touch()
		log.Printf("👋 Client %s left session %s (Remaining: %d)", userID, s.id, len(s.clients))
	}
}

// broadcast fans an event out to every connected client. Slow clients are
// dropped rather than blocking the generation path.
func (s *Session) broadcast(event Event) {
	event.SessionID = s.id

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, client := range s.clients {
		select {
		case client.send <- messageBytes:
		default:
			close(client.send)
			delete(s.clients, userID)
		}
	}
}

// readPump drains inbound frames. The studio protocol is push-only; the
// read loop exists to detect disconnects.
func (c *Client) readPump(session *Session) {
	defer func() {
		session.removeClient(c.userID)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
