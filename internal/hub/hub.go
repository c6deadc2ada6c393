// Package hub streams the in-app view to websocket clients.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ride-progress-sim/internal/logger"
	mmetrics "ride-progress-sim/internal/metrics"
	"ride-progress-sim/internal/present"
	"ride-progress-sim/internal/ride"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is the envelope sent to clients.
type Event struct {
	Type string       `json:"type"`
	Data present.View `json:"data"`
}

const EventRideStatus = "ride_status"

type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

type Hub struct {
	clients    map[string]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	current    func() ride.Status
	log        *logger.Logger
	metrics    *mmetrics.Collector
}

// NewHub creates a hub; current supplies the status sent to each client
// as soon as it connects.
func NewHub(current func() ride.Status, log *logger.Logger, metrics *mmetrics.Collector) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		current:    current,
		log:        log,
		metrics:    metrics,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.metrics.WSClientsSet(0)
			h.log.Info(logger.Entry{Action: "hub_stopped", Message: "websocket hub stopped"})
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			n := len(h.clients)
			h.mu.Unlock()
			if snap, err := encode(h.current()); err == nil {
				c.send <- snap
			}
			h.metrics.WSClientsSet(n)
			h.log.Info(logger.Entry{Action: "ws_client_registered", Message: c.ID})

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.WSClientsSet(n)
			h.log.Info(logger.Entry{Action: "ws_client_unregistered", Message: c.ID})

		case msg := <-h.broadcast:
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client; drop it.
					close(c.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Present is a session subscriber broadcasting the in-app view of st.
func (h *Hub) Present(st ride.Status) {
	msg, err := encode(st)
	if err != nil {
		h.log.Error(logger.Entry{Action: "ws_encode_failed", Message: err.Error(), Error: logger.Err(err)})
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn(logger.Entry{Action: "broadcast_dropped", Message: "broadcast channel full"})
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encode(st ride.Status) ([]byte, error) {
	return json.Marshal(Event{Type: EventRideStatus, Data: present.InApp(st)})
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(logger.Entry{Action: "ws_upgrade_failed", Message: err.Error(), Error: logger.Err(err)})
		return
	}
	c := &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// readPump only services control frames; clients have nothing to say.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn(logger.Entry{Action: "ws_read_error", Message: c.ID, Error: logger.Err(err)})
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
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
