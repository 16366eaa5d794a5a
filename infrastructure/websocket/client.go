package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *connWrapper
	Message chan *WSMessage
	// ID identifies this connection, not the user: one user may hold
	// several sockets to the same event (multiple tabs or devices).
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	EventID  string `json:"eventId"`
	Username string `json:"username"`

	// Protection against double-close and race conditions
	closeOnce sync.Once
	closed    chan struct{}
	mu        sync.RWMutex
}

func NewClient(conn *websocket.Conn, userID, eventID, username string) *Client {
	return &Client{
		conn:     newConnWrapper(conn),
		Message:  make(chan *WSMessage, 64),
		ID:       uuid.NewString(),
		UserID:   userID,
		EventID:  eventID,
		Username: username,
		closed:   make(chan struct{}),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		_ = c.conn.Close()
		c.mu.Unlock()
		close(c.Message)
	})
}

func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// ReadMessage drains the connection until it drops. Clients don't send
// commands over the socket; all writes go through the HTTP API. Reading is
// still required to process control frames and detect disconnects.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		c.Close()
	}()

	_ = c.conn.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	c.conn.conn.SetPongHandler(func(string) error {
		_ = c.conn.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-c.closed:
			return
		default:
		}

		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	defer c.Close()

	// Ping ticker to keep connection alive
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.Message:
			if !ok {
				c.mu.Lock()
				_ = c.conn.conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}

			_ = c.conn.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

			c.mu.Lock()
			err := c.conn.WriteJSON(msg)
			c.mu.Unlock()

			if err != nil {
				log.Printf("ws write error (client %s): %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := c.conn.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				log.Printf("ping error (client %s): %v", c.ID, err)
				return
			}

		case <-c.closed:
			return
		}
	}
}
