// Package websocket - Live Community Feed
// Implements a single broadcast room pushing forum posts and level-up events
// to every connected client. The feed is one-way: clients only listen.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
)

// Constants for performance and limits
const (
	writeWait  = 10 * time.Second    // Time allowed to write a message
	pongWait   = 60 * time.Second    // Time allowed to read the next pong
	pingPeriod = (pongWait * 9) / 10 // Send pings to client
	maxClients = 5000                // Max concurrent feed listeners
)

// Event is one feed entry pushed to clients
type Event struct {
	Type      string      `json:"type"` // "post", "level_up", "welcome"
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// LevelUpPayload announces a user reaching a new level
type LevelUpPayload struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
}

// Hub manages the feed room and its client connections
type Hub struct {
	clientsMu  sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	wg         sync.WaitGroup
}

// Client represents one WebSocket feed listener
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan *Event
	userID string
}

// NewHub creates the feed hub and starts its dispatch loop
func NewHub() *Hub {
	hub := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}

	hub.wg.Add(1)
	go hub.run()

	return hub
}

// PublishPost pushes a new forum post to the feed
func (h *Hub) PublishPost(post *models.Post) {
	h.publish(&Event{Type: "post", Payload: post, Timestamp: time.Now()})
}

// PublishLevelUp pushes a level-up announcement to the feed
func (h *Hub) PublishLevelUp(userID, displayName string, level int, title string) {
	h.publish(&Event{
		Type: "level_up",
		Payload: LevelUpPayload{
			UserID:      userID,
			DisplayName: displayName,
			Level:       level,
			Title:       title,
		},
		Timestamp: time.Now(),
	})
}

// publish never blocks the caller; a saturated feed drops the event
func (h *Hub) publish(event *Event) {
	select {
	case h.broadcast <- event:
	default:
		logger.Warn("Feed broadcast buffer full, dropping event")
	}
}

// run handles hub operations
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case event := <-h.broadcast:
			h.broadcastToAll(event)
		case <-h.stop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.clientsMu.Lock()
	if len(h.clients) >= maxClients {
		h.clientsMu.Unlock()
		logger.Warnf("Feed full, rejecting client %s", client.userID)
		client.conn.Close()
		return
	}
	h.clients[client] = true
	h.clientsMu.Unlock()

	logger.WebSocket("client_connected", client.userID)

	welcome := &Event{Type: "welcome", Timestamp: time.Now()}
	select {
	case client.send <- welcome:
	default:
	}
}

func (h *Hub) handleUnregister(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.clientsMu.Unlock()

	logger.WebSocket("client_disconnected", client.userID)
}

// broadcastToAll sends the event to every connected client
func (h *Hub) broadcastToAll(event *Event) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			// Client send buffer full, drop the connection
			logger.Warnf("Client %s send buffer full, disconnecting", client.userID)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) handleStop() {
	h.clientsMu.Lock()
	for client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = nil
	h.clientsMu.Unlock()
}

// ClientCount returns the number of connected feed listeners
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeClient registers a connection and starts its pumps
func (h *Hub) ServeClient(conn *websocket.Conn, userID string) {
	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan *Event, 64),
		userID: userID,
	}

	h.register <- client

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// readPump drains the connection. The feed is one-way, so inbound frames are
// discarded; the pump exists to process pongs and detect the close.
func (c *Client) readPump() {
	defer func() {
		// During shutdown the dispatch loop is gone, so don't block on it
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

// writePump writes feed events to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				logger.Errorf("Failed to marshal feed event: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.stop:
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	logger.Info("Stopping WebSocket hub...")
	close(h.stop)
	h.wg.Wait()
	logger.Info("WebSocket hub stopped")
}
