package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krishanu7/battleship-ai/db"
	"github.com/krishanu7/battleship-ai/internal/game"
)

func TestEloDelta_EvenRatings(t *testing.T) {
	require.Equal(t, 16, eloDelta(1500, 1500, 1))
	require.Equal(t, -16, eloDelta(1500, 1500, 0))
}

func TestEloDelta_Favourite(t *testing.T) {
	// a strong player gains little for beating a weaker one
	win := eloDelta(1900, 1500, 1)
	loss := eloDelta(1900, 1500, 0)
	require.Less(t, win, 16)
	require.Greater(t, win, 0)
	require.Less(t, loss, -16)
}

func TestApply_Win(t *testing.T) {
	stats := db.PlayerStats{PlayerID: "p1", Elo: defaultElo}
	got := apply(stats, game.Result{PlayerID: "p1", Won: true, Shots: 40, Hits: 17})

	require.Equal(t, 1, got.Wins)
	require.Zero(t, got.Losses)
	require.Equal(t, 40, got.Shots)
	require.Equal(t, 17, got.Hits)
	require.Equal(t, defaultElo+16, got.Elo)
}

func TestApply_LossAccumulates(t *testing.T) {
	stats := db.PlayerStats{PlayerID: "p1", Wins: 2, Losses: 1, Shots: 90, Hits: 34, Elo: defaultElo}
	got := apply(stats, game.Result{PlayerID: "p1", Won: false, Shots: 60, Hits: 12})

	require.Equal(t, 2, got.Wins)
	require.Equal(t, 2, got.Losses)
	require.Equal(t, 150, got.Shots)
	require.Equal(t, 46, got.Hits)
	require.Equal(t, defaultElo-16, got.Elo)
}

func TestAccuracy(t *testing.T) {
	require.Zero(t, accuracy(0, 0))
	require.Equal(t, 0.5, accuracy(10, 20))
	require.Equal(t, 0.333, accuracy(1, 3))
}
