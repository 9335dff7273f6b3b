package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Room groups the connections watching one game.
type Room struct {
	ID      string
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]struct{}),
	}
}

// Broadcast queues message for every client. A client whose buffer is full
// misses the frame rather than stalling the game.
func (r *Room) Broadcast(message []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for client := range r.clients {
		select {
		case client.Send <- message:
		default:
			log.Warn().Str("room_id", r.ID).Str("client_id", client.ID).Msg("client send buffer full, dropping frame")
		}
	}
}

func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
	c.Room = r
	log.Debug().Str("client_id", c.ID).Str("room_id", r.ID).Msg("client joined room")
}

// RemoveClient drops c and reports how many clients remain.
func (r *Room) RemoveClient(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients)
}

func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
