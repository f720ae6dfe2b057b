package chat

import (
	"log"
	"sync"

	"growshare/internal/models"
)

// threadConn is the slice of *websocket.Conn the hub writes to.
type threadConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// subscriber serializes writes to one connection. gorilla/websocket allows
// at most one concurrent writer per connection.
type subscriber struct {
	mu   sync.Mutex
	conn threadConn
}

func (s *subscriber) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Hub fans new messages out to the WebSocket connections subscribed to a
// farmer's thread. Both the farmer and the admin side subscribe to the same
// farmer ID.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[threadConn]*subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[threadConn]*subscriber)}
}

// Subscribe registers a connection for a farmer's thread.
func (h *Hub) Subscribe(farmerID string, conn threadConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[farmerID] == nil {
		h.subs[farmerID] = make(map[threadConn]*subscriber)
	}
	h.subs[farmerID][conn] = &subscriber{conn: conn}
}

// Unsubscribe removes a connection. Safe to call for a connection that was
// never subscribed.
func (h *Hub) Unsubscribe(farmerID string, conn threadConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[farmerID], conn)
	if len(h.subs[farmerID]) == 0 {
		delete(h.subs, farmerID)
	}
}

// Broadcast pushes a message to every subscriber of its thread. Write
// failures are logged and the dead connection dropped.
func (h *Hub) Broadcast(msg *models.Message) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[msg.FarmerID]))
	for _, s := range h.subs[msg.FarmerID] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.writeJSON(msg); err != nil {
			log.Printf("chat hub: dropping connection for farmer %s: %v", msg.FarmerID, err)
			h.Unsubscribe(msg.FarmerID, s.conn)
			s.conn.Close()
		}
	}
}
