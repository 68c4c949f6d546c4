package studio

import (
	"log"
	"sync"
	"time"

	"github.com/rusxoficial-svg/Gerador-de-Imagens-e-V-deos/modules/catalog"
)

// Session is one user's studio: the uploaded garment photo, the current
// settings, the generation history and any connected websocket clients.
// All fields behind mu.
type Session struct {
	id string

	mu           sync.RWMutex
	createdAt    time.Time
	lastActivity time.Time

	clients map[string]*Client

	source          *ImageAsset
	settings        catalog.Settings
	history         []*HistoryItem
	activeID        string
	generatingImage bool
	generatingVideo bool
	lastError       string
	jobs            map[string]*Job
}

// ServerMetrics tracks lifetime counters for the metrics endpoint.
type ServerMetrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	ImagesGenerated  int       `json:"imagesGenerated"`
	VideosGenerated  int       `json:"videosGenerated"`
	StartTime        time.Time `json:"startTime"`
	mutex            sync.RWMutex
}

// SessionManager owns the in-memory session registry.
type SessionManager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
	metrics  *ServerMetrics

	maxAge    time.Duration
	idleLimit time.Duration
}

func NewSessionManager(maxAge, idleLimit time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		metrics: &ServerMetrics{
			StartTime: time.Now(),
		},
		maxAge:    maxAge,
		idleLimit: idleLimit,
	}
}

// GetOrCreateSession returns the session for the given ID, creating it
// with default settings on first sight.
func (sm *SessionManager) GetOrCreateSession(sessionID string) *Session {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		now := time.Now()
		session = &Session{
			id:           sessionID,
			clients:      make(map[string]*Client),
			createdAt:    now,
			lastActivity: now,
			settings:     catalog.DefaultSettings(),
			jobs:         make(map[string]*Job),
		}
		sm.sessions[sessionID] = session

		sm.metrics.mutex.Lock()
		sm.metrics.TotalSessions++
		sm.metrics.ActiveSessions++
		sm.metrics.mutex.Unlock()

		log.Printf("✅ Created new session: %s (Total: %d, Active: %d)",
			sessionID, sm.metrics.TotalSessions, sm.metrics.ActiveSessions)
	}

	session.mu.Lock()
	session.lastActivity = time.Now()
	session.mu.Unlock()
	return session
}

// GetSession returns an existing session without creating one.
func (sm *SessionManager) GetSession(sessionID string) (*Session, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	session, exists := sm.sessions[sessionID]
	return session, exists
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

// cleanupExpiredSessions drops sessions past the age limit and idle empty
// sessions. A session with pending jobs is never dropped.
func (sm *SessionManager) cleanupExpiredSessions() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	now := time.Now()
	cleaned := 0
	for sessionID, session := range sm.sessions {
		session.mu.RLock()
		busy := session.generatingImage || session.generatingVideo || len(session.jobs) > 0
		isExpired := now.Sub(session.createdAt) > sm.maxAge
		isInactive := now.Sub(session.lastActivity) > sm.idleLimit && len(session.clients) == 0
		session.mu.RUnlock()

		if busy || (!isExpired && !isInactive) {
			continue
		}

		session.mu.Lock()
		for userID, client := range session.clients {
			close(client.send)
			delete(session.clients, userID)
			log.Printf("🔌 Disconnecting client %s from expired session %s", userID, sessionID)
		}
		session.mu.Unlock()

		delete(sm.sessions, sessionID)
		cleaned++

		sm.metrics.mutex.Lock()
		sm.metrics.ActiveSessions--
		sm.metrics.mutex.Unlock()

		reason := "expired"
		if isInactive {
			reason = "inactive"
		}
		log.Printf("⏰ Cleaned up %s session: %s (Age: %v, Inactive: %v)",
			reason, sessionID, now.Sub(session.createdAt), now.Sub(session.lastActivity))
	}

	if cleaned > 0 {
		log.Printf("🧼 Cleaned up %d expired/inactive sessions (Active: %d)", cleaned, sm.metrics.ActiveSessions)
	}
}

// StartCleanupRoutine runs the expiry sweep every 30 minutes.
func (sm *SessionManager) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			sm.cleanupExpiredSessions()
		}
	}()

	log.Printf("🔄 Started session cleanup routine (Expired: 30min)")
}

// ForceCleanup runs the expiry sweep immediately.
func (sm *SessionManager) ForceCleanup() {
	sm.cleanupExpiredSessions()
}

// MetricsSnapshot builds the payload for the metrics endpoint.
func (sm *SessionManager) MetricsSnapshot() map[string]interface{} {
	sm.metrics.mutex.RLock()
	total := sm.metrics.TotalSessions
	active := sm.metrics.ActiveSessions
	connections := sm.metrics.TotalConnections
	images := sm.metrics.ImagesGenerated
	videos := sm.metrics.VideosGenerated
	startTime := sm.metrics.StartTime
	sm.metrics.mutex.RUnlock()

	sm.mutex.RLock()
	sessionDetails := make([]map[string]interface{}, 0, len(sm.sessions))
	totalClients := 0
	for sessionID, session := range sm.sessions {
		session.mu.RLock()
		clientCount := len(session.clients)
		totalClients += clientCount

		sessionDetails = append(sessionDetails, map[string]interface{}{
			"sessionId":       sessionID,
			"clientCount":     clientCount,
			"historyCount":    len(session.history),
			"generatingImage": session.generatingImage,
			"generatingVideo": session.generatingVideo,
			"createdAt":       session.createdAt,
			"lastActivity":    session.lastActivity,
			"age":             time.Since(session.createdAt).String(),
			"inactive":        time.Since(session.lastActivity).String(),
		})
		session.mu.RUnlock()
	}
	sm.mutex.RUnlock()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":           time.Since(startTime).String(),
			"startTime":        startTime,
			"totalSessions":    total,
			"activeSessions":   active,
			"totalConnections": connections,
			"imagesGenerated":  images,
			"videosGenerated":  videos,
			"currentClients":   totalClients,
		},
		"sessions": sessionDetails,
	}
}

func (sm *SessionManager) countImage() {
	sm.metrics.mutex.Lock()
	sm.metrics.ImagesGenerated++
	sm.metrics.mutex.Unlock()
}

func (sm *SessionManager) countVideo() {
	sm.metrics.mutex.Lock()
	sm.metrics.VideosGenerated++
	sm.metrics.mutex.Unlock()
}
