package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hnakamori/trafficpulse/internal/jartic"
	"github.com/hnakamori/trafficpulse/internal/types"
)

type fakeBuilder struct {
	snap  *types.Snapshot
	err   error
	calls int
}

func (f *fakeBuilder) Build(ctx context.Context) (*types.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

func okSnapshot() *types.Snapshot {
	return &types.Snapshot{
		ID: "test",
		Stations: []types.Station{
			{ID: "4110040", Volume: 20, Rank: 1, IsTop5: true, IsTop20: true, Area: "Tokyo"},
		},
		Stats:     types.Stats{TotalStations: 1, MaxTraffic: 20, MinTraffic: 20, AverageTraffic: 20},
		TimeCode:  "202403012130",
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

func failureSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Stations: []types.Station{},
		Stats:    types.Stats{TopRegions: []types.RegionVolume{}},
		Success:  false,
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := New(Config{}, &fakeBuilder{snap: okSnapshot()}, slog.New(slog.DiscardHandler))
	w := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTrafficReturnsSnapshot(t *testing.T) {
	s := New(Config{}, &fakeBuilder{snap: okSnapshot()}, slog.New(slog.DiscardHandler))
	w := get(t, s, "/api/v1/traffic")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "v1", w.Header().Get("X-API-Version"))

	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.True(t, snap.Success)
	require.Equal(t, "202403012130", snap.TimeCode)
	require.Len(t, snap.Stations, 1)
}

func TestTrafficFailureStaysWellFormed(t *testing.T) {
	b := &fakeBuilder{snap: failureSnapshot(), err: jartic.ErrNoData}
	s := New(Config{}, b, slog.New(slog.DiscardHandler))
	w := get(t, s, "/api/v1/traffic")

	require.Equal(t, http.StatusInternalServerError, w.Code)

	// Collaborators must get every field, just empty, so they can render
	// a "no data" state instead of crashing.
	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.False(t, snap.Success)
	require.NotNil(t, snap.Stations)
	require.Empty(t, snap.Stations)
}

func TestStationsEnvelope(t *testing.T) {
	s := New(Config{}, &fakeBuilder{snap: okSnapshot()}, slog.New(slog.DiscardHandler))
	w := get(t, s, "/api/v1/traffic/stations")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []types.Station `json:"data"`
		Meta struct {
			Count    int    `json:"count"`
			TimeCode string `json:"timeCode"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Meta.Count)
	require.Equal(t, "202403012130", body.Meta.TimeCode)
	require.Len(t, body.Data, 1)
}

func TestStatsEnvelope(t *testing.T) {
	s := New(Config{}, &fakeBuilder{snap: okSnapshot()}, slog.New(slog.DiscardHandler))
	w := get(t, s, "/api/v1/traffic/stats")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data     types.Stats `json:"data"`
		TimeCode string      `json:"timeCode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.TotalStations)
	require.Equal(t, "202403012130", body.TimeCode)
}

func TestSnapshotTTLCache(t *testing.T) {
	b := &fakeBuilder{snap: okSnapshot()}
	s := New(Config{SnapshotTTL: time.Minute}, b, slog.New(slog.DiscardHandler))

	for i := 0; i < 3; i++ {
		w := get(t, s, "/api/v1/traffic")
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 1, b.calls)
}

func TestSnapshotTTLDisabledRecomputes(t *testing.T) {
	b := &fakeBuilder{snap: okSnapshot()}
	s := New(Config{}, b, slog.New(slog.DiscardHandler))

	get(t, s, "/api/v1/traffic")
	get(t, s, "/api/v1/traffic")
	require.Equal(t, 2, b.calls)
}

func TestFailedBuildIsNotCached(t *testing.T) {
	b := &fakeBuilder{snap: failureSnapshot(), err: jartic.ErrNoData}
	s := New(Config{SnapshotTTL: time.Minute}, b, slog.New(slog.DiscardHandler))

	get(t, s, "/api/v1/traffic")
	get(t, s, "/api/v1/traffic")
	require.Equal(t, 2, b.calls)
}

func TestCORSPreflights(t *testing.T) {
	s := New(Config{}, &fakeBuilder{snap: okSnapshot()}, slog.New(slog.DiscardHandler))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/traffic", nil)
	s.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
