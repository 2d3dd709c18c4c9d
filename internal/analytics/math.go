package analytics

import (
	"math"
	"time"
)

// roundPercent computes num/den as a whole percentage using round-half-up.
// A zero denominator yields 0; funnel conversion, win rates and loss-reason
// shares all share this one rounding rule.
func roundPercent(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Floor(num/den*100 + 0.5))
}

// roundToInt rounds half-up to the nearest integer
func roundToInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

// wholeDays returns the floored number of whole days between from and to,
// clamped at 0. Negative deltas from clock skew are a data-quality floor,
// not an error.
func wholeDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
