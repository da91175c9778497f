package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hnakamori/trafficpulse/internal/region"
	"github.com/hnakamori/trafficpulse/internal/types"
)

const (
	// DefaultEndpoint is the public Nominatim reverse geocoding API.
	DefaultEndpoint = "https://nominatim.openstreetmap.org/reverse"

	// DefaultDelay is the pause between consecutive lookups. Nominatim
	// blocks clients that hammer it, so enrichment paces itself.
	DefaultDelay = 100 * time.Millisecond

	userAgent = "trafficpulse/1.0"
)

// Resolver turns coordinates into place names. Resolve never fails:
// on any lookup problem it falls back to the static region classifier,
// and every outcome is cached so the same coordinate is looked up at
// most once per process.
type Resolver struct {
	endpoint string
	client   *http.Client
	cache    *Cache
	delay    time.Duration
	logger   *slog.Logger
}

// NewResolver creates a resolver over the given cache. Empty endpoint,
// nil client, and zero delay select the defaults.
func NewResolver(endpoint string, client *http.Client, cache *Cache, delay time.Duration, logger *slog.Logger) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if cache == nil {
		cache = NewCache()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		endpoint: endpoint,
		client:   client,
		cache:    cache,
		delay:    delay,
		logger:   logger,
	}
}

// Resolve returns a usable place name for the coordinate. Cache hits
// skip the network entirely; misses get one lookup attempt, then the
// region classifier result. Whatever was resolved is cached, so a
// failed lookup is not retried for the same quantized coordinate.
func (r *Resolver) Resolve(ctx context.Context, lat, lng float64) string {
	key := Key(lat, lng)
	if name, ok := r.cache.Get(key); ok {
		return name
	}

	name, err := r.lookup(ctx, lat, lng)
	if err != nil {
		r.logger.Debug("reverse geocode failed", "lat", lat, "lng", lng, "error", err)
		name = region.Classify(lat, lng)
	}

	r.cache.Put(key, name)
	return name
}

// EnrichTop overwrites the place labels of the first n ranked stations
// with reverse-geocoded names, sequentially with a fixed pause between
// lookups. Cancellation stops the remaining lookups; stations already
// enriched keep their upgraded names.
func (r *Resolver) EnrichTop(ctx context.Context, stations []types.Station, n int) {
	if n > len(stations) {
		n = len(stations)
	}
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			r.logger.Debug("enrichment cancelled", "enriched", i, "of", n)
			return
		}

		name := r.Resolve(ctx, stations[i].Position.Lat, stations[i].Position.Lng)
		stations[i].SetPlaceName(name)

		if i+1 < n {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.delay):
			}
		}
	}
}

// nominatimResponse is the subset of the address breakdown we use.
type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

func (r *Resolver) lookup(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("format", "json")
	params.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: unexpected status %s", resp.Status)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	city := payload.Address.City
	if city == "" {
		city = payload.Address.Town
	}
	if city == "" {
		city = payload.Address.Village
	}
	state := payload.Address.State

	switch {
	case city != "" && state != "":
		return city + ", " + state, nil
	case state != "":
		return state, nil
	default:
		return "", fmt.Errorf("no usable address parts")
	}
}
