// Package timecode computes the 5-minute-aligned JST bucket codes the
// upstream feed publishes readings under.
package timecode

import "time"

const (
	// Layout is the 12-character bucket code format (YYYYMMDDHHMM).
	Layout = "200601021504"

	// Interval is the upstream publication cadence.
	Interval = 5 * time.Minute

	// MaxLookback is the number of candidate buckets tried when walking
	// backward from now, spanning one hour of publication lag.
	MaxLookback = 12

	jstOffset = 9 * time.Hour
)

// At returns the bucket code for now minus offset, in JST, with the
// minute floored to a multiple of five.
func At(now time.Time, offset time.Duration) string {
	t := now.UTC().Add(jstOffset - offset)
	t = t.Add(-time.Duration(t.Minute()%5) * time.Minute).Truncate(time.Minute)
	return t.Format(Layout)
}

// Candidates returns the descending sequence of bucket codes to try:
// now, now-5m, ... now-55m. The feed usually lags a few intervals
// behind wall-clock time, so callers attempt these in order.
func Candidates(now time.Time) []string {
	codes := make([]string, 0, MaxLookback)
	for i := 0; i < MaxLookback; i++ {
		codes = append(codes, At(now, time.Duration(i)*Interval))
	}
	return codes
}
