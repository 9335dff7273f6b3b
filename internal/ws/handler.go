package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/game"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	"github.com/rs/zerolog/log"
)

const maxMessageSize = 4096

// StateMessage carries a snapshot to the browser.
type StateMessage struct {
	Type   string        `json:"type"`
	GameID string        `json:"gameId"`
	State  game.Snapshot `json:"state"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Handler struct {
	Hub         *wsPkg.Hub
	gameService *game.Service

	mu          sync.Mutex
	unsubscribe map[string]func()
}

func NewHandler(hub *wsPkg.Hub, gameService *game.Service) *Handler {
	return &Handler{
		Hub:         hub,
		gameService: gameService,
		unsubscribe: make(map[string]func()),
	}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}
	owner, err := h.gameService.PlayerID(gameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	playerID := auth.PlayerID(r.Context())
	if owner != "" && owner != playerID {
		http.Error(w, "not your game", http.StatusForbidden)
		return
	}

	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	clientID := playerID
	if clientID == "" {
		clientID = "guest-" + uuid.NewString()[:8]
	}
	client := wsPkg.NewClient(clientID, conn)

	if err := h.join(gameID, client); err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("failed to join game")
		conn.Close()
		return
	}
	log.Info().Str("client_id", client.ID).Str("game_id", gameID).Msg("player connected")

	if snap, err := h.gameService.Snapshot(gameID); err == nil {
		h.sendState(client, gameID, snap)
	}

	go h.write(client)
	go h.read(client, gameID)
}

// join puts c in the game's room; the first client of a room subscribes
// the room to the game's snapshots.
func (h *Handler) join(gameID string, c *wsPkg.Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, created := h.Hub.Join(gameID, c)
	if !created {
		return nil
	}
	unsubscribe, err := h.gameService.Subscribe(gameID, func(snap game.Snapshot) {
		msg, err := json.Marshal(StateMessage{Type: "state", GameID: gameID, State: snap})
		if err != nil {
			log.Error().Err(err).Str("game_id", gameID).Msg("failed to marshal state")
			return
		}
		room.Broadcast(msg)
	})
	if err != nil {
		h.Hub.Leave(c)
		return err
	}
	h.unsubscribe[gameID] = unsubscribe
	return nil
}

func (h *Handler) leave(gameID string, c *wsPkg.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.Hub.Leave(c) {
		return
	}
	if unsubscribe, ok := h.unsubscribe[gameID]; ok {
		unsubscribe()
		delete(h.unsubscribe, gameID)
	}
}

func (h *Handler) read(c *wsPkg.Client, gameID string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		h.leave(gameID, c)
		close(c.Send)
		log.Info().Str("client_id", c.ID).Str("game_id", gameID).Msg("player disconnected")
	}()
	c.Conn.SetReadLimit(maxMessageSize)

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("read error")
			}
			return
		}
		var in game.Intent
		if err := json.Unmarshal(msg, &in); err != nil {
			h.sendError(c, "malformed intent")
			continue
		}
		// The resulting snapshot reaches every client through the room
		// subscription, so only errors are answered directly.
		if _, err := h.gameService.Apply(ctx, gameID, in); err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				h.sendError(c, "game not found")
				return
			}
			h.sendError(c, err.Error())
		}
	}
}

func (h *Handler) write(c *wsPkg.Client) {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn().Err(err).Str("client_id", c.ID).Msg("write error")
			break
		}
	}
}

func (h *Handler) sendState(c *wsPkg.Client, gameID string, snap game.Snapshot) {
	msg, err := json.Marshal(StateMessage{Type: "state", GameID: gameID, State: snap})
	if err != nil {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

func (h *Handler) sendError(c *wsPkg.Client, message string) {
	msg, _ := json.Marshal(ErrorMessage{Type: "error", Message: message})
	select {
	case c.Send <- msg:
	default:
	}
}
