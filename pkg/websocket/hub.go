package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks one Room per live game.
type Hub struct {
	rooms map[string]*Room
	mu    sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*Room),
	}
}

// Join adds c to the room for roomID, creating it if needed. created
// reports whether this is the room's first client.
func (h *Hub) Join(roomID string, c *Client) (room *Room, created bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.rooms[roomID]
	if !exists {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
		log.Debug().Str("room_id", roomID).Msg("room opened")
	}
	room.AddClient(c)
	return room, !exists
}

// Leave removes c from its room and closes the room once it is empty.
// It reports whether the room was closed.
func (h *Hub) Leave(c *Client) bool {
	if c.Room == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	room := c.Room
	if room.RemoveClient(c) > 0 {
		return false
	}
	if h.rooms[room.ID] == room {
		delete(h.rooms, room.ID)
	}
	log.Debug().Str("room_id", room.ID).Msg("room closed")
	return true
}

func (h *Hub) Room(roomID string) (*Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[roomID]
	return room, ok
}
