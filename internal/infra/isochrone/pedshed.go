package isochrone

import "math"

// CircleAreaKm2 returns the area in km² of the theoretical full-budget
// circle with radius walkRangeM (walk speed × walk budget).
func CircleAreaKm2(walkRangeM float64) float64 {
	return math.Pi * walkRangeM * walkRangeM / 1_000_000
}

// PedshedRatio compares the realized reachable area against the
// theoretical maximum. Returns 0 when the circle area is zero or no band
// area is available. The ratio is not clamped; dense grids approach 1.
func PedshedRatio(isochroneAreaKm2, circleAreaKm2 float64) float64 {
	if circleAreaKm2 <= 0 {
		return 0
	}

	return isochroneAreaKm2 / circleAreaKm2
}
