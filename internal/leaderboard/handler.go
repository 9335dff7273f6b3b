package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Store is the read side of the leaderboard.
type Store interface {
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	entries, err := h.store.GetLeaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load leaderboard")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to load leaderboard"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func parseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
