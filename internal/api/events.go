package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/graphrapids/graphsettings/internal/scoped"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Actions carried by change events.
const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionPublish     = "publish"
	ActionEntryUpsert = "entry-upsert"
	ActionEntryDelete = "entry-delete"
)

// ChangeEvent tells connected panels that a record was written, so they
// can refresh. Ordering across concurrent writes is not guaranteed; a
// panel refreshing on an event re-reads current backend state anyway.
type ChangeEvent struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	RecordID string    `json:"recordId"`
	Action   string    `json:"action"`
	At       time.Time `json:"at"`
}

// EventHub fans change events out to connected websocket clients.
type EventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*websocket.Conn]bool)}
}

// RecordChanged broadcasts a change event for the given record. Clients
// whose connection errors are dropped from the hub.
func (h *EventHub) RecordChanged(res scoped.Resource, recordID, action string) {
	event := ChangeEvent{
		ID:       uuid.New().String(),
		Resource: res.Name(),
		RecordID: recordID,
		Action:   action,
		At:       time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *EventHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *EventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
}

// StreamChanges upgrades the connection and keeps it registered until the
// client goes away. Clients only listen; inbound messages are drained and
// discarded.
func (s *Server) StreamChanges(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Events.add(conn)
	defer s.Events.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
