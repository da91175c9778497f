package timecode

import (
	"testing"
	"time"
)

func TestAt(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		offset   time.Duration
		expected string
	}{
		{
			name:     "exact interval boundary",
			now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			offset:   0,
			expected: "202401010900", // 00:00 UTC is 09:00 JST
		},
		{
			name:     "minutes floored to multiple of five",
			now:      time.Date(2024, 3, 1, 12, 34, 56, 789, time.UTC),
			offset:   0,
			expected: "202403012130", // 21:34:56 JST floors to 21:30
		},
		{
			name:     "offset walks backward across an interval",
			now:      time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC),
			offset:   10 * time.Minute,
			expected: "202403012120",
		},
		{
			name:     "day boundary in JST",
			now:      time.Date(2024, 2, 29, 23, 59, 30, 0, time.UTC),
			offset:   0,
			expected: "202403010855", // leap day 23:59 UTC is 08:59 JST on March 1
		},
		{
			name:     "offset crosses midnight JST",
			now:      time.Date(2024, 6, 10, 15, 2, 0, 0, time.UTC), // 00:02 JST June 11
			offset:   5 * time.Minute,
			expected: "202406102355",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := At(tt.now, tt.offset); got != tt.expected {
				t.Errorf("At() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 33, 20, 0, time.UTC)
	codes := Candidates(now)

	if len(codes) != MaxLookback {
		t.Fatalf("Candidates() returned %d codes, want %d", len(codes), MaxLookback)
	}

	// Each candidate must parse back and sit exactly one interval before
	// its predecessor.
	prev, err := time.Parse(Layout, codes[0])
	if err != nil {
		t.Fatalf("parse %s: %v", codes[0], err)
	}
	for _, code := range codes[1:] {
		cur, err := time.Parse(Layout, code)
		if err != nil {
			t.Fatalf("parse %s: %v", code, err)
		}
		if diff := prev.Sub(cur); diff != Interval {
			t.Errorf("gap between %s and %s = %v, want %v", prev, cur, diff, Interval)
		}
		prev = cur
	}
}

func TestCandidatesSpanOneHour(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codes := Candidates(now)

	first, _ := time.Parse(Layout, codes[0])
	last, _ := time.Parse(Layout, codes[len(codes)-1])
	if span := first.Sub(last); span != 55*time.Minute {
		t.Errorf("candidate span = %v, want 55m", span)
	}
}
