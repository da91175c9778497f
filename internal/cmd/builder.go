package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/hnakamori/trafficpulse/internal/geocode"
	"github.com/hnakamori/trafficpulse/internal/jartic"
	"github.com/hnakamori/trafficpulse/internal/pipeline"
)

// newSnapshotBuilder assembles the pipeline from the active config:
// feed client, geocode cache (optionally sqlite-backed), resolver, and
// builder. The returned cleanup closes the cache store.
func newSnapshotBuilder() (*pipeline.Builder, func(), error) {
	feed := jartic.NewClient(
		viper.GetString("feed.url"),
		viper.GetString("feed.bbox"),
		&http.Client{Timeout: 30 * time.Second},
		logger,
	)

	cleanup := func() {}
	var enricher pipeline.Enricher
	enrichTop := viper.GetInt("geocode.top")

	if viper.GetBool("geocode.enabled") {
		cache := geocode.NewCache()
		if path := viper.GetString("geocode.cache"); path != "" {
			persistent, err := geocode.NewPersistentCache(path, logger)
			if err != nil {
				return nil, nil, err
			}
			cache = persistent
			cleanup = func() {
				if err := persistent.Close(); err != nil {
					logger.Warn("closing geocode cache", "error", err)
				}
			}
		}
		enricher = geocode.NewResolver(
			viper.GetString("geocode.url"),
			nil,
			cache,
			viper.GetDuration("geocode.delay"),
			logger,
		)
	} else {
		enrichTop = 0
	}

	builder, err := pipeline.NewBuilder(feed, enricher, enrichTop, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return builder, cleanup, nil
}
