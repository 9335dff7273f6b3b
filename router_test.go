package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/ws"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
)

func guestRouter() http.Handler {
	svc := game.NewService(nil, nil, time.Millisecond)
	return newRouter(routerDeps{
		cfg:       config.Config{JWTSecret: "secret", ClientOrigin: "http://localhost:3000"},
		game:      game.NewHandler(svc),
		gameWS:    ws.NewHandler(wsPkg.NewHub(), svc),
		generalWS: ws.NewGeneralHandler(wsPkg.NewGeneralHub()),
	})
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	guestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	guestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/games", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_WithoutDatabase(t *testing.T) {
	h := guestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_GuestCanCreateGame(t *testing.T) {
	rec := httptest.NewRecorder()
	guestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/games", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_NotificationsRequireAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	guestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GameSocketNeedsGameID(t *testing.T) {
	rec := httptest.NewRecorder()
	guestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/game", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
