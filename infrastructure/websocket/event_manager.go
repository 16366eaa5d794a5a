package websocket

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrClientNotFound = errors.New("client not found")

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
)

// wsEvent is the set of clients watching one event, keyed by connection ID.
type wsEvent struct {
	ID      string
	Clients map[string]*Client

	mu sync.RWMutex
}

type EventManager struct {
	events map[string]*wsEvent
	mu     sync.RWMutex
}

func NewEventManager() *EventManager {
	return &EventManager{
		events: make(map[string]*wsEvent),
	}
}

func (em *EventManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// AddClient registers the client and reports whether it is the first one
// for its event, which means the realtime bridge must attach.
func (em *EventManager) AddClient(cl *Client) (first bool) {
	em.mu.Lock()
	defer em.mu.Unlock()

	evt, ok := em.events[cl.EventID]
	if !ok {
		evt = &wsEvent{
			ID:      cl.EventID,
			Clients: make(map[string]*Client),
		}
		em.events[cl.EventID] = evt
		first = true
	}

	evt.mu.Lock()
	if _, exists := evt.Clients[cl.ID]; !exists {
		evt.Clients[cl.ID] = cl
	}
	evt.mu.Unlock()
	return first
}

// RemoveClient drops the client and reports whether it was the last one for
// its event, which means the realtime bridge must detach.
func (em *EventManager) RemoveClient(cl *Client) (last bool) {
	em.mu.Lock()
	evt, ok := em.events[cl.EventID]
	if !ok {
		em.mu.Unlock()
		cl.Close()
		return false
	}

	evt.mu.Lock()
	// Remove only the exact connection: another socket of the same user
	// must never be evicted by this one going away.
	if stored, exists := evt.Clients[cl.ID]; exists && stored == cl {
		delete(evt.Clients, cl.ID)
	}
	remaining := len(evt.Clients)
	evt.mu.Unlock()

	if remaining == 0 {
		delete(em.events, cl.EventID)
		last = true
	}
	em.mu.Unlock()

	cl.Close()
	return last
}

func (em *EventManager) Broadcast(msg *WSMessage) error {
	em.mu.RLock()
	evt, ok := em.events[msg.EventID]
	em.mu.RUnlock()

	if !ok {
		return ErrEventNotFound
	}

	// Snapshot the clients so the lock is not held during sends.
	evt.mu.RLock()
	clients := make([]*Client, 0, len(evt.Clients))
	for _, cl := range evt.Clients {
		clients = append(clients, cl)
	}
	evt.mu.RUnlock()

	for _, cl := range clients {
		if cl.IsClosed() {
			continue
		}

		select {
		case cl.Message <- msg:
		default:
			log.Printf("client %s buffer full, dropping message", cl.ID)
		}
	}

	return nil
}

func (em *EventManager) DisconnectAll() {
	em.mu.Lock()
	defer em.mu.Unlock()

	for _, evt := range em.events {
		evt.mu.Lock()
		for _, cl := range evt.Clients {
			cl.Close()
		}
		evt.mu.Unlock()
	}

	em.events = make(map[string]*wsEvent)
}

func (em *EventManager) ClientCount(eventID string) int {
	em.mu.RLock()
	evt, ok := em.events[eventID]
	em.mu.RUnlock()

	if !ok {
		return 0
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()
	return len(evt.Clients)
}
