// Package ranking orders normalized stations by traffic volume and
// derives snapshot-level summary statistics.
package ranking

import (
	"math"
	"sort"

	"github.com/hnakamori/trafficpulse/internal/types"
)

// Volume thresholds used by the summary counts.
const (
	thresholdHigh   = 100
	thresholdMedium = 50
	thresholdLow    = 20
)

// topRegionCount is how many leading stations feed the region summary.
const topRegionCount = 10

// Rank sorts stations by volume descending and assigns dense 1-based
// ranks plus the top-N flags. The sort is stable, so ties keep their
// input order. The slice is modified in place and returned.
func Rank(stations []types.Station) []types.Station {
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].Volume > stations[j].Volume
	})
	for i := range stations {
		stations[i].Rank = i + 1
		stations[i].IsTop5 = i < 5
		stations[i].IsTop20 = i < 20
	}
	return stations
}

// Summarize computes the full statistics block over a ranked station
// set. Every field is recomputed from scratch; an empty set yields all
// zeros rather than dividing by zero.
func Summarize(stations []types.Station) types.Stats {
	stats := types.Stats{
		TotalStations: len(stations),
		TopRegions:    []types.RegionVolume{},
	}

	var total int
	for i, s := range stations {
		total += s.Volume
		if s.Volume > stats.MaxTraffic || i == 0 {
			stats.MaxTraffic = s.Volume
		}
		if s.Volume < stats.MinTraffic || i == 0 {
			stats.MinTraffic = s.Volume
		}

		if s.Volume > thresholdHigh {
			stats.StationsOver100++
		}
		if s.Volume > thresholdMedium {
			stats.StationsOver50++
		}
		if s.Volume > thresholdLow {
			stats.StationsOver20++
		}

		if s.Status != types.StatusActive {
			stats.StationsWithIssues++
		}
		if s.PowerStatus != types.PowerOK {
			stats.PowerIssues++
		}
		if s.DataStatus != types.DataOK {
			stats.DataIssues++
		}

		stats.SmallVehicleTotal += s.SmallVehicles
		stats.LargeVehicleTotal += s.LargeVehicles
		if s.Upbound > s.Downbound {
			stats.UpboundDominant++
		} else if s.Downbound > s.Upbound {
			stats.DownboundDominant++
		}

		switch s.VehicleMix {
		case types.MixSmallHeavy:
			stats.SmallHeavyCount++
		case types.MixLargeHeavy:
			stats.LargeHeavyCount++
		default:
			stats.MixedCount++
		}

		if i < topRegionCount {
			stats.TopRegions = append(stats.TopRegions, types.RegionVolume{
				Region: s.Area,
				Volume: s.Volume,
			})
		}
	}

	if len(stations) > 0 {
		stats.AverageTraffic = int(math.Round(float64(total) / float64(len(stations))))
	}
	return stats
}
