package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"venuebooking/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// Client is one websocket. Only its write pump touches the connection for
// writing; everything else queues frames on send.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps one live websocket per user and pushes stored notifications to it.
type Hub struct {
	connections map[int64]*Client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*Client),
	}
}

// Register replaces any previous connection of the user and starts the
// write pump for the new one.
func (h *Hub) Register(userID int64, conn *websocket.Conn) *Client {
	c := &Client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if old, exists := h.connections[userID]; exists && old != nil {
		close(old.send)
	}
	h.connections[userID] = c
	h.mutex.Unlock()

	go c.writePump()
	return c
}

// Unregister drops the user's connection if it is still c. Closing send
// stops the write pump, which closes the socket.
func (h *Hub) Unregister(userID int64, c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if current, exists := h.connections[userID]; exists && current == c {
		close(current.send)
		delete(h.connections, userID)
	}
}

// SendToUser queues message for the user's socket without waiting. A client
// whose queue is full is disconnected; it reloads from the inbox on reconnect.
func (h *Hub) SendToUser(userID int64, message any) bool {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws_marshal_failed user_id=%d error=%q", userID, err.Error())
		return false
	}

	h.mutex.RLock()
	c, exists := h.connections[userID]
	if !exists || c == nil {
		h.mutex.RUnlock()
		return false
	}
	var queued bool
	select {
	case c.send <- data:
		queued = true
	default:
	}
	h.mutex.RUnlock()

	if !queued {
		log.Printf("ws_slow_client user_id=%d dropped", userID)
		h.Unregister(userID, c)
	}
	return queued
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			close(c.send)
		}
		delete(h.connections, userID)
	}
}

// writePump owns every write on the socket. Each write carries a deadline so
// a peer that stops reading cannot hold it forever.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type PushMessage struct {
	Type         string              `json:"type"`
	Event        EventKind           `json:"event"`
	Notification domain.Notification `json:"notification"`
}

func (h *Hub) Name() string { return "websocket" }

// Handle queues each stored notification for its recipient if online.
// Offline users read them later from the notifications endpoint.
func (h *Hub) Handle(_ context.Context, ev Event) error {
	for _, n := range ev.Notifications {
		h.SendToUser(n.UserID, PushMessage{Type: "notification", Event: ev.Kind, Notification: n})
	}
	return nil
}
