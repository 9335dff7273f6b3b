package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	limit   int
	entries []LeaderboardEntry
	err     error
}

func (f *fakeStore) GetLeaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

func TestParseLimit(t *testing.T) {
	require.Equal(t, defaultLimit, parseLimit(""))
	require.Equal(t, defaultLimit, parseLimit("abc"))
	require.Equal(t, defaultLimit, parseLimit("-3"))
	require.Equal(t, 25, parseLimit("25"))
	require.Equal(t, maxLimit, parseLimit("5000"))
}

func TestHandler_GetLeaderboard(t *testing.T) {
	store := &fakeStore{entries: []LeaderboardEntry{
		{PlayerID: "p1", Username: "alice", Wins: 3, Elo: 1548, Accuracy: 0.42},
	}}
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	h.GetLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, store.limit)

	var got []LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "alice", got[0].Username)
	require.Equal(t, 1548, got[0].Elo)
}

func TestHandler_GetLeaderboardError(t *testing.T) {
	h := NewHandler(&fakeStore{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	h.GetLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"failed to load leaderboard"}`, rec.Body.String())
}
