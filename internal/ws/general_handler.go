package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/krishanu7/battleship-ai/internal/auth"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	"github.com/rs/zerolog/log"
)

type GeneralHandler struct {
	Hub *wsPkg.GeneralHub
}

func NewGeneralHandler(hub *wsPkg.GeneralHub) *GeneralHandler {
	return &GeneralHandler{
		Hub: hub,
	}
}

// ServeGeneralWS opens the notification stream of the authenticated player.
func (h *GeneralHandler) ServeGeneralWS(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerID(r.Context())
	if playerID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("general websocket upgrade failed")
		return
	}
	client := wsPkg.NewClient(playerID, conn)
	h.Hub.AddClient(client)

	go h.read(client)
	go h.write(client)
}

func (h *GeneralHandler) read(c *wsPkg.Client) {
	defer func() {
		h.Hub.RemoveClient(c)
		close(c.Send)
	}()
	for {
		// Nothing is expected from the client; reading detects the close.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("player_id", c.ID).Msg("general read error")
			}
			return
		}
	}
}

func (h *GeneralHandler) write(c *wsPkg.Client) {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn().Err(err).Str("player_id", c.ID).Msg("general write error")
			return
		}
	}
}
