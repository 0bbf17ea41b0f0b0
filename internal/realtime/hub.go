package realtime

import (
	"log"
	"sync"
)

// sink is one delivery target. *Conn implements it; tests substitute fakes.
type sink interface {
	WriteEvent(event string, payload any) error
}

// Hub tracks room membership: personal rooms keyed by user id, chat rooms
// keyed by task id. It implements Publisher for the services.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[sink]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[sink]struct{})}
}

// Join is idempotent: joining an already-joined room changes nothing.
func (h *Hub) Join(room string, s sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[sink]struct{})
	}
	h.rooms[room][s] = struct{}{}
}

// Leave on an unjoined room is a no-op.
func (h *Hub) Leave(room string, s sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(room, s)
}

// DropAll removes the sink from every room it joined. Called on disconnect;
// no explicit per-room cleanup is required by the protocol.
func (h *Hub) DropAll(s sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.drop(room, s)
	}
}

func (h *Hub) drop(room string, s sink) {
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Publish delivers to every sink currently in the room, at most once each.
// Nobody joined means the event is lost; the persisted record is the durable
// source of truth. Write failures are logged, never surfaced.
func (h *Hub) Publish(room, event string, payload any) {
	h.mu.RLock()
	targets := make([]sink, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.WriteEvent(event, payload); err != nil {
			log.Printf("realtime: dropped %s to room %s: %v", event, room, err)
		}
	}
}
