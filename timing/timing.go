// Package timing provides the clock and rate helpers shared by every
// benchmark kernel.
package timing

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// MiB is the unit used for all bandwidth and throughput figures.
const MiB = 1 << 20

// Clock is the time source used by kernels. The real implementation returns
// readings that carry Go's monotonic clock, so Sub never jumps backwards when
// the wall clock is adjusted.
type Clock = clock.Clock

// New returns the real clock.
func New() Clock {
	return clock.New()
}

// Elapsed returns the seconds between two readings of the same clock.
// Negative intervals are reported as zero.
func Elapsed(start, end time.Time) float64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}

	return d.Seconds()
}

// Rate returns amount/seconds, or 0 if the interval is empty or the
// quotient is not a finite non-negative number.
func Rate(amount, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}

	r := amount / seconds
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}

	return r
}

// MiBPerSecond converts a byte count over an interval into MiB/s.
func MiBPerSecond(bytes, seconds float64) float64 {
	return Rate(bytes/MiB, seconds)
}
