// Package ws broadcasts listing lifecycle events to connected map
// clients so the public food map refreshes without polling.
package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ListingEvent is one lifecycle transition pushed to clients.
type ListingEvent struct {
	Type      string              `json:"type"` // "listing_created", "listing_claimed", "listing_completed"
	ListingID uint                `json:"listing_id"`
	Status    types.ListingStatus `json:"status"`
}

// client wraps a connection with a write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and broadcasts
// and pings arrive from different goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

type Hub struct {
	allowedOrigins []string
	clients        map[*client]bool
	mu             sync.RWMutex
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		allowedOrigins: allowedOrigins,
		clients:        make(map[*client]bool),
	}
}

// Broadcast pushes an event to every connected client, dropping
// connections that fail to accept the write.
func (h *Hub) Broadcast(event ListingEvent) {
	h.mu.RLock()

	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}

	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.writeJSON(event); err != nil {
			log.Printf("Failed to broadcast listing event: %v", err)
			h.remove(cl)
			cl.conn.Close()
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
}

// Serve upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) Serve(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	cl := &client{conn: conn}

	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()

	done := make(chan struct{})

	defer func() {
		close(done)
		h.remove(cl)
		conn.Close()
	}()

	err = cl.writeJSON(map[string]string{
		"type":    "connected",
		"message": "Listing feed connected",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on listing feed: %v", err)
			}
			break
		}
	}
}
