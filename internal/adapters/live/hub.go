package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds each socket write; a client that exceeds it is dropped.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Writes are serialized by mu.
type Client struct {
	conn *websocket.Conn
	wait time.Duration
	mu   sync.Mutex
}

func (c *Client) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.wait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Update is the envelope of every message pushed to a browser.
type Update struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans the updates of one planning session out to its connections.
type Hub struct {
	sessionID  string
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	writeWait  time.Duration

	board *board
}

func NewHub(sessionID string) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		writeWait:  writeWait,
		board:      newBoard(),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("session=%s live client connected total=%d", h.sessionID, n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("session=%s live client disconnected total=%d", h.sessionID, n)

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				if err := client.WriteMessage(message); err != nil {
					log.Printf("session=%s live write failed, dropping client: %v", h.sessionID, err)
					h.mu.Lock()
					delete(h.clients, client)
					h.mu.Unlock()
					client.conn.Close()
				}
			}
		}
	}
}

// Clients reports the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues an update for every client. It never blocks: when the
// queue is full the update is dropped.
func (h *Hub) Publish(updateType string, data any) {
	jsonData, err := json.Marshal(Update{Type: updateType, Data: data})
	if err != nil {
		log.Printf("session=%s marshal %s update: %v", h.sessionID, updateType, err)
		return
	}

	select {
	case h.broadcast <- jsonData:
	default:
		log.Printf("session=%s live queue full, dropped %s update", h.sessionID, updateType)
	}
}

// ServeWS upgrades the request and streams the session's updates. The
// first message carries the current map state.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("session=%s websocket upgrade error: %v", h.sessionID, err)
		return
	}

	client := &Client{conn: conn, wait: h.writeWait}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	jsonData, err := json.Marshal(Update{Type: "init", Data: h.board.snapshot()})
	if err == nil {
		err = client.WriteMessage(jsonData)
	}
	if err != nil {
		log.Printf("session=%s send init: %v", h.sessionID, err)
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- client:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
