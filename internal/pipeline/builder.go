// Package pipeline wires the feed fetcher, normalizer, enricher, and
// ranking into a single snapshot build.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/hnakamori/trafficpulse/internal/ranking"
	"github.com/hnakamori/trafficpulse/internal/station"
	"github.com/hnakamori/trafficpulse/internal/types"
)

// DefaultEnrichTop is how many of the busiest stations get the
// reverse-geocoded place name upgrade.
const DefaultEnrichTop = 20

// FeedSource fetches the freshest available feature collection and the
// time bucket it was published under.
type FeedSource interface {
	FetchLatest(ctx context.Context) (*geojson.FeatureCollection, string, error)
}

// Enricher upgrades place labels on the first n ranked stations.
type Enricher interface {
	EnrichTop(ctx context.Context, stations []types.Station, n int)
}

// Builder produces one immutable Snapshot per Build call. Builds do not
// share state, so a Builder is safe for concurrent use; the geocode
// cache inside the enricher is the only shared resource.
type Builder struct {
	source    FeedSource
	enricher  Enricher
	logger    *slog.Logger
	enrichTop int
}

// NewBuilder prepares a builder. The enricher may be nil to skip
// geocode enrichment entirely.
func NewBuilder(source FeedSource, enricher Enricher, enrichTop int, logger *slog.Logger) (*Builder, error) {
	if source == nil {
		return nil, fmt.Errorf("feed source must not be nil")
	}
	if enrichTop < 0 {
		enrichTop = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		source:    source,
		enricher:  enricher,
		logger:    logger,
		enrichTop: enrichTop,
	}, nil
}

// Build fetches, normalizes, ranks, enriches, and summarizes one
// snapshot. On failure it returns a well-formed empty snapshot with
// Success false alongside the error, so callers always have something
// renderable.
func (b *Builder) Build(ctx context.Context) (*types.Snapshot, error) {
	fc, timeCode, err := b.source.FetchLatest(ctx)
	if err != nil {
		b.logger.Warn("snapshot build failed", "error", err)
		return emptySnapshot(), fmt.Errorf("fetch traffic data: %w", err)
	}

	stations := make([]types.Station, 0, len(fc.Features))
	for i, f := range fc.Features {
		s, ok := station.Normalize(f, i, timeCode)
		if !ok {
			b.logger.Debug("skipping feature without usable coordinates", "index", i)
			continue
		}
		stations = append(stations, s)
	}

	ranked := ranking.Rank(stations)
	if b.enricher != nil && b.enrichTop > 0 {
		b.enricher.EnrichTop(ctx, ranked, b.enrichTop)
	}

	snap := &types.Snapshot{
		ID:        uuid.NewString(),
		Stations:  ranked,
		Stats:     ranking.Summarize(ranked),
		TimeCode:  timeCode,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}

	b.logger.Info("snapshot built",
		"time_code", timeCode,
		"stations", len(ranked),
		"raw_features", len(fc.Features),
	)
	return snap, nil
}

func emptySnapshot() *types.Snapshot {
	return &types.Snapshot{
		ID:        uuid.NewString(),
		Stations:  []types.Station{},
		Stats:     types.Stats{TopRegions: []types.RegionVolume{}},
		Timestamp: time.Now().UTC(),
		Success:   false,
	}
}
