// Package jartic fetches 5-minute traffic sensor readings from the
// JARTIC open-traffic WFS feature service.
package jartic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/hnakamori/trafficpulse/internal/timecode"
)

// ErrNoData is returned when no candidate time bucket yielded a
// non-empty feature collection. It is the only fatal fetch outcome.
var ErrNoData = errors.New("no traffic data available for any recent time code")

const (
	// DefaultEndpoint is the public JARTIC GeoServer endpoint.
	DefaultEndpoint = "https://api.jartic-open-traffic.org/geoserver"

	// DefaultBBox covers the national sensor coverage area
	// (minLng,minLat,maxLng,maxLat in EPSG:4326).
	DefaultBBox = "129.0,31.0,146.0,46.0"

	typeName    = "t_travospublic_measure_5m"
	roadType    = 3
	maxFeatures = 1000
)

// Client issues filtered GetFeature queries against the feature
// service. It walks candidate time buckets to tolerate publication lag.
type Client struct {
	endpoint string
	bbox     string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// NewClient creates a feed client. Empty endpoint or bbox select the
// public defaults; a nil http client falls back to http.DefaultClient.
func NewClient(endpoint, bbox string, client *http.Client, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if bbox == "" {
		bbox = DefaultBBox
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: endpoint,
		bbox:     bbox,
		client:   client,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchBucket requests the feature collection published under one time
// bucket code. A non-2xx status is an error; an empty collection is not.
func (c *Client) FetchBucket(ctx context.Context, code string) (*geojson.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bucketURL(code), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request bucket %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bucket %s: unexpected status %s", code, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bucket %s: %w", code, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode bucket %s: %w", code, err)
	}
	return fc, nil
}

// FetchLatest walks the candidate buckets from now backward and returns
// the first non-empty collection together with its bucket code. Each
// bucket gets exactly one attempt; transport failures, bad statuses,
// and empty collections all just advance the walk. Only exhausting
// every candidate is fatal.
func (c *Client) FetchLatest(ctx context.Context) (*geojson.FeatureCollection, string, error) {
	for _, code := range timecode.Candidates(c.now()) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		fc, err := c.FetchBucket(ctx, code)
		if err != nil {
			c.logger.Debug("bucket attempt failed", "code", code, "error", err)
			continue
		}
		if len(fc.Features) == 0 {
			c.logger.Debug("bucket empty", "code", code)
			continue
		}

		c.logger.Debug("bucket accepted", "code", code, "features", len(fc.Features))
		return fc, code, nil
	}
	return nil, "", ErrNoData
}

// bucketURL builds the WFS GetFeature query for one bucket: fixed road
// type, national bounding box, time-bucket equality, capped page size.
func (c *Client) bucketURL(code string) string {
	filter := fmt.Sprintf("道路種別=%d AND 時間コード=%s AND BBOX(ジオメトリ,%s,'EPSG:4326')",
		roadType, code, c.bbox)

	params := url.Values{}
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "GetFeature")
	params.Set("typeNames", typeName)
	params.Set("srsName", "EPSG:4326")
	params.Set("outputFormat", "application/json")
	params.Set("exceptions", "application/json")
	params.Set("maxFeatures", fmt.Sprintf("%d", maxFeatures))
	params.Set("cql_filter", filter)

	return c.endpoint + "?" + params.Encode()
}
