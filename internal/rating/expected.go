package rating

import "math"

// ExpectedOutcome returns the probability that a side rated ra beats a side rated rb.
// ExpectedOutcome(a, b, s) + ExpectedOutcome(b, a, s) == 1.
func ExpectedOutcome(ra, rb, scale float64) float64 {
	if scale == 0 {
		scale = DefaultScale
	}
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/scale))
}
