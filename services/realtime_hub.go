package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultWriteWait = 10 * time.Second
	clientSendBuffer = 32
)

// WSClient is one open stream socket. Events are queued on send and written
// by the client's own writer goroutine.
type WSClient struct {
	SessionID string
	Conn      *websocket.Conn

	send      chan []byte
	writeWait time.Duration
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func NewWSClient(sessionID string, conn *websocket.Conn) *WSClient {
	return &WSClient{
		SessionID: sessionID,
		Conn:      conn,
		send:      make(chan []byte, clientSendBuffer),
		writeWait: defaultWriteWait,
	}
}

func (c *WSClient) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a websocket ping, serialized with event writes.
func (c *WSClient) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

func (c *WSClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.Conn.Close()
	})
}

// RealtimeHub fans meal events out to every socket opened by the same session.
type RealtimeHub struct {
	mu        sync.RWMutex
	clients   map[string]map[*WSClient]struct{}
	writeWait time.Duration
	log       *zap.Logger
}

func NewRealtimeHub(log *zap.Logger) *RealtimeHub {
	return &RealtimeHub{
		clients:   make(map[string]map[*WSClient]struct{}),
		writeWait: defaultWriteWait,
		log:       log,
	}
}

// Register adds c and starts its writer.
func (h *RealtimeHub) Register(c *WSClient) {
	c.writeWait = h.writeWait
	h.mu.Lock()
	if h.clients[c.SessionID] == nil {
		h.clients[c.SessionID] = make(map[*WSClient]struct{})
	}
	h.clients[c.SessionID][c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
}

func (h *RealtimeHub) writeLoop(c *WSClient) {
	for msg := range c.send {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			h.log.Debug("realtime write failed", zap.String("session", c.SessionID), zap.Error(err))
			h.Unregister(c)
			return
		}
	}
}

// Unregister removes c and closes its socket. Safe to call more than once.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.SessionID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.SessionID)
		}
	}
	// closed under the lock: Broadcast only sends to registered clients
	c.close()
	h.mu.Unlock()
}

// Connected reports how many sockets the session has open.
func (h *RealtimeHub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Broadcast queues payload for the session's sockets and returns how many
// accepted it. It never waits on a socket: a client whose queue is full is
// dropped.
func (h *RealtimeHub) Broadcast(sessionID string, payload any) int {
	msg, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal realtime payload", zap.Error(err))
		return 0
	}

	var slow []*WSClient
	sent := 0
	h.mu.RLock()
	for c := range h.clients[sessionID] {
		select {
		case c.send <- msg:
			sent++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow realtime client", zap.String("session", c.SessionID))
		h.Unregister(c)
	}
	return sent
}
