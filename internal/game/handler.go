package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Routes mounts the game endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.NewGame)
	r.Get("/{gameID}", h.GetGame)
	r.Post("/{gameID}/intents", h.ApplyIntent)
}

type GameResponse struct {
	GameID string   `json:"gameId"`
	State  Snapshot `json:"state"`
}

func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	id, snap := h.service.NewGame(auth.PlayerID(r.Context()))
	writeJSON(w, http.StatusCreated, GameResponse{GameID: id, State: snap})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	if !h.authorize(w, r, id) {
		return
	}
	snap, err := h.service.Snapshot(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{GameID: id, State: snap})
}

func (h *Handler) ApplyIntent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	if !h.authorize(w, r, id) {
		return
	}

	var in Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	snap, err := h.service.Apply(r.Context(), id, in)
	if err != nil {
		log.Debug().Err(err).Str("game_id", id).Str("intent", string(in.Type)).Msg("intent rejected")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{GameID: id, State: snap})
}

// authorize rejects requests for a game owned by a different player.
// Games created by guests are reachable by id alone.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, id string) bool {
	owner, err := h.service.PlayerID(id)
	if err != nil {
		writeServiceError(w, err)
		return false
	}
	if owner != "" && owner != auth.PlayerID(r.Context()) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your game"})
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidIntent), errors.Is(err, ErrInvalidCoordinate):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
