// Package geometry provides the contour computations the isochrone engine
// delegates to: convex hulls of reachable-node point sets and their
// spherical surface area.
package geometry

import (
	"math"
	"sort"

	"pedshed/internal/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ErrDegeneratePointSet is returned when a point set has no 2D extent
// (fewer than 3 distinct points, or all points collinear).
var ErrDegeneratePointSet = errors.New("point set has no polygonal hull")

// HullService computes a contour polygon and its area for a point set.
type HullService interface {
	// ConvexHullArea returns the convex hull of the points as a closed ring
	// together with its surface area in square meters.
	ConvexHullArea(points []orb.Point) (orb.Ring, float64, error)
}

type sphericalHullService struct{}

// NewHullService returns a HullService backed by a planar convex hull and
// spherical surface area.
func NewHullService() HullService {
	return sphericalHullService{}
}

// ConvexHullArea computes the convex hull via the monotone chain algorithm
// and its area on the sphere.
func (sphericalHullService) ConvexHullArea(points []orb.Point) (orb.Ring, float64, error) {
	hull := convexHull(points)
	if len(hull) < 3 {
		return nil, 0, errors.WithStack(ErrDegeneratePointSet)
	}

	// Close the ring
	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, hull[0])

	areaM2 := math.Abs(geo.Area(orb.Polygon{ring}))
	if areaM2 <= 0 {
		return nil, 0, errors.WithStack(ErrDegeneratePointSet)
	}

	return ring, areaM2, nil
}

// convexHull implements Andrew's monotone chain over lng/lat points.
// Returns the hull vertices counter-clockwise without the closing point.
func convexHull(points []orb.Point) []orb.Point {
	if len(points) < 3 {
		return nil
	}

	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}

		return sorted[i][1] < sorted[j][1]
	})
	sorted = dedupe(sorted)

	if len(sorted) < 3 {
		return nil
	}

	var lower []orb.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []orb.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Endpoints are shared between the two chains
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}

	return hull
}

// cross returns the z component of (b-a) x (c-a); positive for a left turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func dedupe(sorted []orb.Point) []orb.Point {
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}

	return out
}
