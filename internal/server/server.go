// Package server exposes snapshots to presentation collaborators over
// a read-only REST API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnakamori/trafficpulse/internal/types"
)

// SnapshotBuilder produces one snapshot per call.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*types.Snapshot, error)
}

// Config holds the serving parameters.
type Config struct {
	Addr string

	// BuildTimeout caps one snapshot build: 12 bucket attempts plus 20
	// paced geocode lookups fit comfortably in a minute.
	BuildTimeout time.Duration

	// SnapshotTTL caches the last successful snapshot for this long.
	// Zero disables caching so every request recomputes.
	SnapshotTTL time.Duration
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     Config
	builder SnapshotBuilder
	engine  *gin.Engine
	logger  *slog.Logger

	mu       sync.Mutex
	cached   *types.Snapshot
	cachedAt time.Time
}

// New constructs a server with routes and middleware.
func New(cfg Config, builder SnapshotBuilder, logger *slog.Logger) *Server {
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	s := &Server{cfg: cfg, builder: builder, engine: engine, logger: logger}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("api server listening", "addr", s.cfg.Addr, "snapshot_ttl", s.cfg.SnapshotTTL)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	v1.GET("/traffic", s.handleSnapshot)
	v1.GET("/traffic/stations", s.handleStations)
	v1.GET("/traffic/stats", s.handleStats)
}

// handleSnapshot returns the full snapshot.
// GET /api/v1/traffic
func (s *Server) handleSnapshot(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleStations returns only the ranked station list.
// GET /api/v1/traffic/stations
func (s *Server) handleStations(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no traffic data available", "data": snap.Stations})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": snap.Stations,
		"meta": gin.H{
			"count":    len(snap.Stations),
			"timeCode": snap.TimeCode,
		},
	})
}

// handleStats returns only the summary statistics.
// GET /api/v1/traffic/stats
func (s *Server) handleStats(c *gin.Context) {
	snap, err := s.snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no traffic data available", "data": snap.Stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     snap.Stats,
		"timeCode": snap.TimeCode,
	})
}

// snapshot serves from the TTL cache when fresh, otherwise builds. Two
// concurrent misses may both rebuild; the last write wins, which is
// harmless since snapshots are self-contained.
func (s *Server) snapshot(ctx context.Context) (*types.Snapshot, error) {
	if s.cfg.SnapshotTTL > 0 {
		s.mu.Lock()
		if s.cached != nil && time.Since(s.cachedAt) < s.cfg.SnapshotTTL {
			snap := s.cached
			s.mu.Unlock()
			return snap, nil
		}
		s.mu.Unlock()
	}

	buildCtx, cancel := context.WithTimeout(ctx, s.cfg.BuildTimeout)
	defer cancel()

	snap, err := s.builder.Build(buildCtx)
	if err != nil {
		return snap, err
	}

	if s.cfg.SnapshotTTL > 0 {
		s.mu.Lock()
		s.cached = snap
		s.cachedAt = time.Now()
		s.mu.Unlock()
	}
	return snap, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
