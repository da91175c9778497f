package types

import "fmt"

// Station status values derived from the upstream health flags.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	PowerOK    = "OK"
	PowerIssue = "Power Issue"

	DataOK      = "OK"
	DataMissing = "Missing Data"
)

// Vehicle mix categories. The small-heavy threshold is intentionally
// asymmetric (3x) while large-heavy uses a plain majority.
const (
	MixSmallHeavy = "small-heavy"
	MixLargeHeavy = "large-heavy"
	MixMixed      = "mixed"
)

// Position is a WGS84 coordinate pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Station is one traffic sensor location with its current 5-minute
// aggregate reading, fully derived from a single upstream feature.
type Station struct {
	ID          string   `json:"id"`
	StationCode string   `json:"stationCode"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Area        string   `json:"area"`
	Position    Position `json:"position"`
	Coordinates string   `json:"coordinates"`

	Volume         int    `json:"volume"`
	Upbound        int    `json:"upbound"`
	Downbound      int    `json:"downbound"`
	UpboundSmall   int    `json:"upboundSmall"`
	UpboundLarge   int    `json:"upboundLarge"`
	DownboundSmall int    `json:"downboundSmall"`
	DownboundLarge int    `json:"downboundLarge"`
	SmallVehicles  int    `json:"smallVehicles"`
	LargeVehicles  int    `json:"largeVehicles"`
	VehicleMix     string `json:"vehicleMix"`

	PowerStatus string `json:"powerStatus"`
	DataStatus  string `json:"dataStatus"`
	Status      string `json:"status"`
	LastUpdate  string `json:"lastUpdate"`

	Rank    int  `json:"rank"`
	IsTop5  bool `json:"isTop5"`
	IsTop20 bool `json:"isTop20"`
}

// SetPlaceName updates the place label and the derived display name,
// keeping the three name fields consistent.
func (s *Station) SetPlaceName(name string) {
	s.Name = name
	s.Area = name
	s.DisplayName = fmt.Sprintf("%s (%s)", name, s.StationCode)
}

// ClassifyVehicleMix categorizes a station's traffic composition.
// Small-heavy wins only past a 3x margin; large-heavy needs a bare
// majority. The asymmetry matches the upstream dashboard semantics.
func ClassifyVehicleMix(small, large int) string {
	switch {
	case small > large*3:
		return MixSmallHeavy
	case large > small:
		return MixLargeHeavy
	default:
		return MixMixed
	}
}
