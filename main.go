package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/db"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/leaderboard"
	"github.com/krishanu7/battleship-ai/internal/ws"
	redisPkg "github.com/krishanu7/battleship-ai/pkg/redis"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
)

const (
	reapInterval = time.Minute
	maxIdle      = time.Hour
)

func main() {
	cfg := config.LoadConfig()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; logins will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB := openDatabase(cfg)
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	var rdb *redis.Client
	var publisher game.Publisher
	if cfg.RedisAddr != "" {
		client, err := redisPkg.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Msg("running without redis notifications")
		} else {
			rdb = client
			defer rdb.Close()
			publisher = redisPkg.NewPublisher(rdb)
		}
	}

	deps := routerDeps{cfg: cfg}
	var recorder game.ResultRecorder
	if sqlDB != nil {
		lb := leaderboard.NewService(sqlDB)
		recorder = lb
		deps.auth = auth.NewAuthHandler(auth.NewService(sqlDB, cfg))
		deps.leaderboard = leaderboard.NewHandler(lb)
	}

	gameService := game.NewService(publisher, recorder, cfg.AIDelay)
	go gameService.RunReaper(ctx, reapInterval, maxIdle)

	generalHub := wsPkg.NewGeneralHub()
	if rdb != nil {
		go ws.NewNotificationWorker(rdb, generalHub).Run(ctx)
	}

	deps.game = game.NewHandler(gameService)
	deps.gameWS = ws.NewHandler(wsPkg.NewHub(), gameService)
	deps.generalWS = ws.NewGeneralHandler(generalHub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Dur("ai_delay", cfg.AIDelay).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

// openDatabase connects to postgres and migrates it. Without DB_URL the
// server runs with guests only.
func openDatabase(cfg config.Config) *sql.DB {
	if cfg.DBUrl == "" {
		log.Warn().Msg("DB_URL not set; accounts and leaderboard disabled")
		return nil
	}
	conn, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := conn.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	return conn
}
