package ws

import (
	"context"
	"encoding/json"

	"github.com/krishanu7/battleship-ai/internal/game"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationWorker forwards game events published on redis to the
// owning player's notification socket.
type NotificationWorker struct {
	RedisClient *redis.Client
	GeneralHub  *wsPkg.GeneralHub
}

func NewNotificationWorker(rdb *redis.Client, hub *wsPkg.GeneralHub) *NotificationWorker {
	return &NotificationWorker{
		RedisClient: rdb,
		GeneralHub:  hub,
	}
}

// Run consumes notifications until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	log.Info().Str("channel", game.NotificationChannel).Msg("notification worker starting")
	pubsub := w.RedisClient.Subscribe(ctx, game.NotificationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notification worker stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Dispatch([]byte(msg.Payload))
		}
	}
}

// Dispatch delivers one notification payload. It reports whether a
// connected player received it.
func (w *NotificationWorker) Dispatch(payload []byte) bool {
	var n game.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal notification")
		return false
	}
	if n.Player == "" {
		return false
	}
	if !w.GeneralHub.SendToClient(n.Player, payload) {
		log.Debug().Str("player_id", n.Player).Str("type", n.Type).Msg("player not connected for notification")
		return false
	}
	log.Debug().Str("player_id", n.Player).Str("type", n.Type).Msg("notification delivered")
	return true
}
