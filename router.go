package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/leaderboard"
	"github.com/krishanu7/battleship-ai/internal/ws"
)

// routerDeps holds the handlers the router mounts. auth and leaderboard
// are nil when no database is configured.
type routerDeps struct {
	cfg         config.Config
	auth        *auth.AuthHandler
	leaderboard *leaderboard.Handler
	game        *game.Handler
	gameWS      *ws.Handler
	generalWS   *ws.GeneralHandler
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(accessLog)
	r.Use(cors(d.cfg.ClientOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if d.auth == nil {
				r.HandleFunc("/*", unavailable)
				return
			}
			r.Post("/register", d.auth.Register)
			r.Post("/login", d.auth.Login)
		})

		if d.leaderboard != nil {
			r.Get("/leaderboard", d.leaderboard.GetLeaderboard)
		} else {
			r.Get("/leaderboard", unavailable)
		}

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(auth.OptionalAuth(d.cfg.JWTSecret))
			r.Route("/games", d.game.Routes)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(d.cfg.JWTSecret))
		r.Get("/ws/game", d.gameWS.ServeWS)
		r.Get("/ws/notifications", d.generalWS.ServeGeneralWS)
	})

	return r
}

func unavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"error":"database not configured"}`))
}
