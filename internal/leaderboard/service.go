package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/krishanu7/battleship-ai/db"
	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/rs/zerolog/log"
)

const (
	// aiElo is the fixed rating of the computer opponent.
	aiElo      = 1500
	defaultElo = 1500
	kFactor    = 32
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

type LeaderboardEntry struct {
	PlayerID  string    `json:"player_id"`
	Username  string    `json:"username"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Shots     int       `json:"shots"`
	Hits      int       `json:"hits"`
	Accuracy  float64   `json:"accuracy"`
	Elo       int       `json:"elo"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordResult folds a finished game into the player's stats.
func (s *Service) RecordResult(ctx context.Context, r game.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats db.PlayerStats
	err = tx.QueryRowContext(ctx,
		"SELECT player_id, wins, losses, shots, hits, elo FROM stats WHERE player_id = $1 FOR UPDATE", r.PlayerID).
		Scan(&stats.PlayerID, &stats.Wins, &stats.Losses, &stats.Shots, &stats.Hits, &stats.Elo)
	if err == sql.ErrNoRows {
		stats = db.PlayerStats{PlayerID: r.PlayerID, Elo: defaultElo}
	} else if err != nil {
		return fmt.Errorf("failed to get player stats: %w", err)
	}

	stats = apply(stats, r)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO stats (player_id, wins, losses, shots, hits, elo, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (player_id) DO UPDATE
		 SET wins = $2, losses = $3, shots = $4, hits = $5, elo = $6, updated_at = now()`,
		stats.PlayerID, stats.Wins, stats.Losses, stats.Shots, stats.Hits, stats.Elo,
	)
	if err != nil {
		return fmt.Errorf("failed to update player stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player stats: %w", err)
	}

	log.Info().
		Str("player_id", stats.PlayerID).
		Int("wins", stats.Wins).
		Int("losses", stats.Losses).
		Int("elo", stats.Elo).
		Msg("updated player stats")
	return nil
}

// apply returns stats updated with the result of one game.
func apply(stats db.PlayerStats, r game.Result) db.PlayerStats {
	score := 0.0
	if r.Won {
		stats.Wins++
		score = 1
	} else {
		stats.Losses++
	}
	stats.Shots += r.Shots
	stats.Hits += r.Hits
	stats.Elo += eloDelta(stats.Elo, aiElo, score)
	return stats
}

// eloDelta is the rating change for a player rated elo scoring score
// (1 win, 0 loss) against an opponent rated opp.
func eloDelta(elo, opp int, score float64) int {
	expected := 1 / (1 + math.Pow(10, float64(opp-elo)/400))
	return int(math.Round(kFactor * (score - expected)))
}

func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.player_id, u.username, s.wins, s.losses, s.shots, s.hits, s.elo, s.updated_at
		FROM stats s
		JOIN users u ON s.player_id = u.id
		ORDER BY s.elo DESC, s.wins DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaderboard := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerID, &entry.Username, &entry.Wins, &entry.Losses, &entry.Shots, &entry.Hits, &entry.Elo, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entry.Accuracy = accuracy(entry.Hits, entry.Shots)
		leaderboard = append(leaderboard, entry)
	}
	return leaderboard, rows.Err()
}

func accuracy(hits, shots int) float64 {
	if shots == 0 {
		return 0
	}
	return math.Round(float64(hits)/float64(shots)*1000) / 1000
}
