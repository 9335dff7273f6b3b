package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// GeneralHub holds one notification connection per player.
type GeneralHub struct {
	clients map[string]*Client
	mu      sync.Mutex
}

func NewGeneralHub() *GeneralHub {
	return &GeneralHub{
		clients: make(map[string]*Client),
	}
}

// AddClient registers c, replacing any earlier connection of the same player.
func (h *GeneralHub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID] = c
	log.Info().Str("player_id", c.ID).Msg("general client connected")
}

// RemoveClient unregisters c unless it has already been replaced.
func (h *GeneralHub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.ID] == c {
		delete(h.clients, c.ID)
	}
	log.Info().Str("player_id", c.ID).Msg("general client disconnected")
}

func (h *GeneralHub) SendToClient(playerID string, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[playerID]

	if !exists {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}
