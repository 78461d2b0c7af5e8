// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/models"
)

const (
	DefaultSendBuffer = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn, buffer int) *wsClient {
	return &wsClient{conn: conn, send: make(chan []byte, buffer), done: make(chan struct{})}
}

// close is idempotent. The send channel is left open so a concurrent
// enqueue never panics; done gates it instead.
func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *wsClient) enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Hub fans room events out to the websocket clients connected to this node
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*wsClient]struct{}

	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *slog.Logger
	metrics    *metrics.Collector
}

type HubOption func(*Hub)

// WithAllowedOrigin restricts websocket upgrades to one Origin. An empty
// origin accepts any.
func WithAllowedOrigin(origin string) HubOption {
	return func(h *Hub) {
		if origin == "" {
			return
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == origin
		}
	}
}

// WithSendBuffer sets how many undelivered events a client may lag behind
// before it is disconnected
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) { h.logger = logger }
}

func WithHubMetrics(m *metrics.Collector) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		rooms: make(map[string]map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer: DefaultSendBuffer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish encodes the event and delivers it to local subscribers
func (h *Hub) Publish(_ context.Context, roomID string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Name, err)
	}
	h.Deliver(roomID, data)
	return nil
}

// Deliver enqueues an encoded event for every client in the room and
// returns how many accepted it. Clients whose buffer is full are dropped.
func (h *Hub) Deliver(roomID string, payload []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.rooms[roomID] {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		h.logger.Warn("dropping slow websocket client", "room_id", roomID)
		h.metrics.EventDropped()
		h.removeLocked(roomID, c)
		c.close()
	}
	return delivered
}

// Subscribers returns the number of clients connected to a room
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// CloseRoom disconnects every client of a room
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	clients := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()

	for c := range clients {
		c.close()
		h.metrics.ClientDisconnected()
	}
}

// Close disconnects every client of every room
func (h *Hub) Close() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]map[*wsClient]struct{})
	h.mu.Unlock()

	for _, clients := range rooms {
		for c := range clients {
			c.close()
			h.metrics.ClientDisconnected()
		}
	}
}

func (h *Hub) add(roomID string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*wsClient]struct{})
		h.rooms[roomID] = subs
	}
	subs[c] = struct{}{}
	h.metrics.ClientConnected()
}

func (h *Hub) remove(roomID string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(roomID, c)
}

func (h *Hub) removeLocked(roomID string, c *wsClient) {
	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	h.metrics.ClientDisconnected()
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
}

// ServeWS upgrades the request and subscribes the connection to roomID
// until either side closes it. Inbound messages are ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "room_id", roomID, "error", err)
		return
	}

	client := newWSClient(conn, h.sendBuffer)
	h.add(roomID, client)
	h.logger.Info("websocket connected", "room_id", roomID, "remote", r.RemoteAddr)

	go h.writePump(roomID, client)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(roomID, client)
	client.close()
	h.logger.Info("websocket disconnected", "room_id", roomID, "remote", r.RemoteAddr)
}

func (h *Hub) writePump(roomID string, c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer func() {
		h.remove(roomID, c)
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("websocket write failed", "room_id", roomID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.Debug("websocket ping failed", "room_id", roomID, "error", err)
				return
			}
		}
	}
}
