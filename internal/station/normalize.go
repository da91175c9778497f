// Package station turns raw upstream features into normalized Station
// records, tolerating the feed's sparse and partially invalid fields.
package station

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hnakamori/trafficpulse/internal/region"
	"github.com/hnakamori/trafficpulse/internal/types"
)

// JARTIC property field names.
const (
	propStationCode = "常時観測点コード"
	propUpSmall     = "上り・小型交通量"
	propUpLarge     = "上り・大型交通量"
	propDownSmall   = "下り・小型交通量"
	propDownLarge   = "下り・大型交通量"
	propUpPower     = "上り・停電"
	propDownPower   = "下り・停電"
	propUpMissing   = "上り・欠測"
	propDownMissing = "下り・欠測"
)

// noIssue is the upstream sentinel for "no outage / no missing data".
const noIssue = "0"

// Normalize converts one raw feature into a Station. The second return
// value is false when the feature has no usable coordinates; such
// records are discarded, never surfaced as errors. Absent properties
// degrade to zero counts or to issue status, they never fail the build.
func Normalize(f *geojson.Feature, index int, timeCode string) (types.Station, bool) {
	if f == nil {
		return types.Station{}, false
	}

	pos, ok := firstVertex(f.Geometry)
	if !ok {
		return types.Station{}, false
	}
	lng, lat := pos.Lon(), pos.Lat()
	if !isFinite(lat) || !isFinite(lng) {
		return types.Station{}, false
	}

	upSmall := intProp(f.Properties, propUpSmall)
	upLarge := intProp(f.Properties, propUpLarge)
	downSmall := intProp(f.Properties, propDownSmall)
	downLarge := intProp(f.Properties, propDownLarge)

	upbound := upSmall + upLarge
	downbound := downSmall + downLarge
	small := upSmall + downSmall
	large := upLarge + downLarge

	powerStatus := types.PowerIssue
	if stringProp(f.Properties, propUpPower) == noIssue && stringProp(f.Properties, propDownPower) == noIssue {
		powerStatus = types.PowerOK
	}
	dataStatus := types.DataMissing
	if stringProp(f.Properties, propUpMissing) == noIssue && stringProp(f.Properties, propDownMissing) == noIssue {
		dataStatus = types.DataOK
	}
	status := types.StatusInactive
	if powerStatus == types.PowerOK && dataStatus == types.DataOK {
		status = types.StatusActive
	}

	code := stringProp(f.Properties, propStationCode)
	id := code
	if id == "" {
		id = fmt.Sprintf("station_%d", index)
		code = strconv.Itoa(index)
	}

	s := types.Station{
		ID:          id,
		StationCode: code,
		Position:    types.Position{Lat: lat, Lng: lng},
		Coordinates: fmt.Sprintf("%.4f, %.4f", lat, lng),

		Volume:         upbound + downbound,
		Upbound:        upbound,
		Downbound:      downbound,
		UpboundSmall:   upSmall,
		UpboundLarge:   upLarge,
		DownboundSmall: downSmall,
		DownboundLarge: downLarge,
		SmallVehicles:  small,
		LargeVehicles:  large,
		VehicleMix:     types.ClassifyVehicleMix(small, large),

		PowerStatus: powerStatus,
		DataStatus:  dataStatus,
		Status:      status,
		LastUpdate:  timeCode,
	}
	s.SetPlaceName(region.Classify(lat, lng))
	return s, true
}

// firstVertex extracts the station position: the first vertex of the
// geometry's coordinate array. The feed publishes point positions as
// single-vertex MultiPoint or LineString geometries.
func firstVertex(g orb.Geometry) (orb.Point, bool) {
	switch geom := g.(type) {
	case orb.Point:
		return geom, true
	case orb.MultiPoint:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.LineString:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.Polygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	case orb.MultiLineString:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	}
	return orb.Point{}, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// intProp reads a count property, defaulting to 0 when absent or
// unparseable. The feed mixes JSON numbers and numeric strings.
func intProp(props geojson.Properties, key string) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// stringProp reads a flag or code property as a string. Numeric values
// are formatted so a JSON 0 still matches the "0" sentinel.
func stringProp(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}
