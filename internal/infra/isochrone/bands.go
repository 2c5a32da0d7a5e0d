package isochrone

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"pedshed/internal/infra/geometry"

	"github.com/paulmach/orb"
)

// thresholdEpsilon treats band thresholds this close together as equal
// when deduplicating the budget threshold against the configured set.
const thresholdEpsilon = 1e-9

// Node is a reachable connector with its position and cumulative cost.
type Node struct {
	ID    string
	Point orb.Point
	CostS float64
}

// Band is the contour of all nodes reachable within a time threshold.
// Ring is nil when the hull computation failed for this band.
type Band struct {
	ThresholdMin float64
	NodeCount    int
	Ring         orb.Ring
	AreaM2       float64
	AreaHa       float64
	AreaKm2      float64
}

// BandBuilder partitions reachable nodes into time bands and computes a
// contour polygon per band.
type BandBuilder struct {
	hulls  geometry.HullService
	logger *slog.Logger
}

// NewBandBuilder creates a band builder on top of a hull service.
func NewBandBuilder(hulls geometry.HullService, logger *slog.Logger) *BandBuilder {
	return &BandBuilder{hulls: hulls, logger: logger}
}

// Build returns one band per threshold, ascending. Thresholds above the
// budget are dropped and the budget's own minute value is always the final
// band. Bands with fewer than 3 nodes are omitted: their contour is
// undefined. A hull failure is local to its band and yields a nil ring
// with zero area.
func (b *BandBuilder) Build(nodes []Node, bandMinutes []float64, budgetMin float64) []Band {
	thresholds := bandThresholds(bandMinutes, budgetMin)

	bands := make([]*Band, len(thresholds))
	subsets := make([][]orb.Point, len(thresholds))

	for i, thresholdMin := range thresholds {
		budgetS := thresholdMin * 60

		var points []orb.Point
		for _, node := range nodes {
			if node.CostS <= budgetS {
				points = append(points, node.Point)
			}
		}

		if len(points) < 3 {
			continue
		}

		bands[i] = &Band{ThresholdMin: thresholdMin, NodeCount: len(points)}
		subsets[i] = points
	}

	// Bands are independent read-only views over the same node slice, so
	// hulls are computed concurrently.
	var wg sync.WaitGroup
	for i := range bands {
		if bands[i] == nil {
			continue
		}

		wg.Add(1)
		go func(band *Band, points []orb.Point) {
			defer wg.Done()
			b.computeHull(band, points)
		}(bands[i], subsets[i])
	}
	wg.Wait()

	result := make([]Band, 0, len(bands))
	for _, band := range bands {
		if band != nil {
			result = append(result, *band)
		}
	}

	return result
}

func (b *BandBuilder) computeHull(band *Band, points []orb.Point) {
	ring, areaM2, err := b.hulls.ConvexHullArea(points)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("hull computation failed for band",
				slog.Float64("threshold_min", band.ThresholdMin),
				slog.Int("node_count", band.NodeCount),
				slog.Any("error", err),
			)
		}

		return
	}

	band.Ring = ring
	band.AreaM2 = areaM2
	band.AreaHa = areaM2 / 10_000
	band.AreaKm2 = areaM2 / 1_000_000
}

// bandThresholds filters the configured thresholds to the budget and
// appends the budget itself as the final band.
func bandThresholds(bandMinutes []float64, budgetMin float64) []float64 {
	thresholds := make([]float64, 0, len(bandMinutes)+1)
	for _, minutes := range bandMinutes {
		if minutes > 0 && minutes <= budgetMin {
			thresholds = append(thresholds, minutes)
		}
	}
	sort.Float64s(thresholds)

	hasBudget := false
	for _, minutes := range thresholds {
		if math.Abs(minutes-budgetMin) < thresholdEpsilon {
			hasBudget = true

			break
		}
	}
	if !hasBudget {
		thresholds = append(thresholds, budgetMin)
	}

	return thresholds
}
