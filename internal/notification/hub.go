// internal/notification/hub.go

package notification

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/imadgeboyega/kiekky-matchmaker/internal/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var ErrHubStopped = errors.New("notification hub stopped")

// Hub keeps one live connection per user and routes events to it
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	online     chan onlineQuery
	done       chan struct{}
	upgrader   websocket.Upgrader
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Event
	userID string
}

type onlineQuery struct {
	userID string
	reply  chan bool
}

// NewHub creates a hub accepting upgrades from allowedOrigins. An empty list
// only admits requests without an Origin header or from the same host; "*" admits any.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		online:     make(chan onlineQuery),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimSuffix(origin, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// Run serves the hub until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			return

		case client := <-h.register:
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			log.Printf("[hub] user %s connected", client.userID)

		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
				log.Printf("[hub] user %s disconnected", client.userID)
			}

		case event := <-h.broadcast:
			if client, ok := h.clients[event.UserID]; ok {
				select {
				case client.send <- event:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}

		case q := <-h.online:
			_, ok := h.clients[q.userID]
			q.reply <- ok
		}
	}
}

// Push queues an event for a user. Events for offline users are dropped.
func (h *Hub) Push(ctx context.Context, event Event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsOnline reports whether the user has a live connection
func (h *Hub) IsOnline(ctx context.Context, userID string) bool {
	q := onlineQuery{userID: userID, reply: make(chan bool, 1)}
	select {
	case h.online <- q:
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-q.reply:
		return ok
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// ServeWS upgrades an authenticated request to a websocket connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	select {
	case <-h.done:
		http.Error(w, "notification hub stopped", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[hub] upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Event, 256),
		userID: userID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

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
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
