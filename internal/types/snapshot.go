package types

import "time"

// RegionVolume pairs a place label with its measured volume, used for
// the top-regions summary.
type RegionVolume struct {
	Region string `json:"region"`
	Volume int    `json:"volume"`
}

// Stats summarizes one ranked station set. All fields are recomputed
// from scratch on every snapshot build.
type Stats struct {
	TotalStations  int `json:"totalStations"`
	AverageTraffic int `json:"averageTraffic"`
	MaxTraffic     int `json:"maxTraffic"`
	MinTraffic     int `json:"minTraffic"`

	StationsOver100 int `json:"stationsOver100"`
	StationsOver50  int `json:"stationsOver50"`
	StationsOver20  int `json:"stationsOver20"`

	StationsWithIssues int `json:"stationsWithIssues"`
	PowerIssues        int `json:"powerIssues"`
	DataIssues         int `json:"dataIssues"`

	SmallVehicleTotal int `json:"smallVehicleTotal"`
	LargeVehicleTotal int `json:"largeVehicleTotal"`
	UpboundDominant   int `json:"upboundDominant"`
	DownboundDominant int `json:"downboundDominant"`
	SmallHeavyCount   int `json:"smallHeavyCount"`
	LargeHeavyCount   int `json:"largeHeavyCount"`
	MixedCount        int `json:"mixedCount"`

	TopRegions []RegionVolume `json:"topRegions"`
}

// Snapshot is one complete, consistent result of a pipeline build:
// ranked stations plus summary statistics as of one time bucket.
// Snapshots are immutable after construction and never persisted.
type Snapshot struct {
	ID        string    `json:"id"`
	Stations  []Station `json:"stations"`
	Stats     Stats     `json:"stats"`
	TimeCode  string    `json:"timeCode"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}
