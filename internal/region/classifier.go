// Package region maps sensor coordinates to human-readable place names
// using static bounding boxes, with no network calls.
package region

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Rule is one named bounding box. Rules are evaluated in declaration
// order with first-match-wins semantics; specific cities come before
// the broader regions that contain them.
type Rule struct {
	Name  string
	Bound orb.Bound
}

// box builds an orb.Bound from latitude/longitude edges. orb points are
// (lon, lat) ordered.
func box(minLat, maxLat, minLng, maxLng float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}
}

// rules covers the national sensor area. Do not reorder: overlapping
// boxes resolve to the earlier, more specific rule (Tokyo sits inside
// the Kanto box, Osaka inside Kansai, and so on).
var rules = []Rule{
	// Major cities.
	{"Tokyo", box(35.5, 36.0, 139.5, 140.0)},
	{"Osaka", box(34.5, 35.5, 135.0, 136.0)},
	{"Nagoya", box(35.0, 36.0, 136.5, 137.5)},
	{"Sapporo", box(43.0, 44.0, 141.0, 142.0)},
	{"Fukuoka", box(33.5, 34.0, 130.0, 131.0)},
	{"Sendai", box(38.0, 38.5, 140.5, 141.0)},
	{"Hiroshima", box(34.0, 34.5, 132.0, 133.0)},

	// Broader regions.
	{"Kanto Region", box(35.0, 90.0, 139.0, 180.0)},
	{"Kansai Region", box(34.0, 35.5, 135.0, 137.0)},
	{"Chubu Region", box(35.0, 37.5, 136.0, 139.0)},
	{"Hokkaido", box(43.0, 90.0, -180.0, 180.0)},
	{"Kyushu", box(-90.0, 34.0, -180.0, 132.0)},
	{"Chugoku Region", box(33.0, 35.0, 132.0, 135.0)},
	{"Shikoku", box(33.0, 35.0, 133.0, 135.0)},
}

// Classify returns the place name for a coordinate. It is total and
// deterministic: coordinates outside every rule fall back to a
// formatted coordinate label.
func Classify(lat, lng float64) string {
	p := orb.Point{lng, lat}
	for _, r := range rules {
		if r.Bound.Contains(p) {
			return r.Name
		}
	}
	return fmt.Sprintf("Station at %.2f°N, %.2f°E", lat, lng)
}
