package isochrone

import (
	"testing"

	"pedshed/internal/infra/geometry"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusterNodes places count nodes in a rough ring around a center, each at
// the given cost.
func clusterNodes(centerLng, centerLat float64, count int, costS float64) []Node {
	nodes := make([]Node, 0, count)
	offsets := []orb.Point{
		{0.001, 0}, {0, 0.001}, {-0.001, 0}, {0, -0.001},
		{0.0007, 0.0007}, {-0.0007, 0.0007}, {0.0007, -0.0007}, {-0.0007, -0.0007},
	}
	for i := 0; i < count; i++ {
		off := offsets[i%len(offsets)]
		scale := 1 + float64(i/len(offsets))
		nodes = append(nodes, Node{
			ID:    string(rune('a' + i)),
			Point: orb.Point{centerLng + off[0]*scale, centerLat + off[1]*scale},
			CostS: costS,
		})
	}

	return nodes
}

func TestBandBuilder_Build(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)

	// 8 nodes inside 5 min, 8 more inside 10 min
	nodes := append(
		clusterNodes(-0.1337, 51.5099, 8, 200),
		clusterNodes(-0.1337, 51.5099, 8, 500)...,
	)

	bands := builder.Build(nodes, []float64{5, 10, 15, 20}, 10)

	require.Len(t, bands, 2)

	assert.Equal(t, 5.0, bands[0].ThresholdMin)
	assert.Equal(t, 8, bands[0].NodeCount)
	assert.Equal(t, 10.0, bands[1].ThresholdMin)
	assert.Equal(t, 16, bands[1].NodeCount)

	for _, band := range bands {
		require.NotNil(t, band.Ring)
		assert.Greater(t, band.AreaM2, 0.0)
		assert.InDelta(t, band.AreaM2/10_000, band.AreaHa, 1e-9)
		assert.InDelta(t, band.AreaM2/1_000_000, band.AreaKm2, 1e-9)
	}

	// Larger threshold covers at least the smaller band's nodes and area
	assert.GreaterOrEqual(t, bands[1].NodeCount, bands[0].NodeCount)
	assert.GreaterOrEqual(t, bands[1].AreaM2, bands[0].AreaM2)
}

func TestBandBuilder_BudgetAlwaysFinalBand(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)
	nodes := clusterNodes(-0.1337, 51.5099, 8, 100)

	bands := builder.Build(nodes, []float64{5, 10, 15, 20}, 12)

	require.NotEmpty(t, bands)
	assert.Equal(t, 12.0, bands[len(bands)-1].ThresholdMin)
	// Thresholds above the budget are dropped
	for _, band := range bands {
		assert.LessOrEqual(t, band.ThresholdMin, 12.0)
	}
}

func TestBandBuilder_BudgetNotDuplicated(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)
	nodes := clusterNodes(-0.1337, 51.5099, 8, 100)

	bands := builder.Build(nodes, []float64{5, 10, 15, 20}, 15)

	require.Len(t, bands, 3)
	assert.Equal(t, []float64{5, 10, 15}, []float64{
		bands[0].ThresholdMin, bands[1].ThresholdMin, bands[2].ThresholdMin,
	})
}

func TestBandBuilder_OmitsSparseBands(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)

	// Only 2 nodes within 5 min; 8 within 15
	nodes := append(
		clusterNodes(-0.1337, 51.5099, 2, 200),
		clusterNodes(-0.1337, 51.5099, 8, 700)...,
	)

	bands := builder.Build(nodes, []float64{5, 10, 15, 20}, 15)

	// 5 min band has 2 points, 10 min band has 2 points: both omitted
	require.Len(t, bands, 1)
	assert.Equal(t, 15.0, bands[0].ThresholdMin)
	assert.Equal(t, 10, bands[0].NodeCount)
}

func TestBandBuilder_NoNodes(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)

	bands := builder.Build(nil, []float64{5, 10}, 10)

	assert.Empty(t, bands)
}

// failingHullService always errors, standing in for a degenerate geometry
// backend response.
type failingHullService struct{}

func (failingHullService) ConvexHullArea([]orb.Point) (orb.Ring, float64, error) {
	return nil, 0, errors.New("backend unavailable")
}

func TestBandBuilder_HullFailureIsLocal(t *testing.T) {
	builder := NewBandBuilder(failingHullService{}, nil)
	nodes := clusterNodes(-0.1337, 51.5099, 8, 100)

	bands := builder.Build(nodes, []float64{5}, 10)

	// Bands are still recorded, with nil polygon and zero area
	require.Len(t, bands, 2)
	for _, band := range bands {
		assert.Nil(t, band.Ring)
		assert.Equal(t, 0.0, band.AreaM2)
		assert.Equal(t, 8, band.NodeCount)
	}
}

func TestBandBuilder_CollinearBand(t *testing.T) {
	builder := NewBandBuilder(geometry.NewHullService(), nil)

	// All reachable nodes on a straight street: hull is degenerate
	nodes := []Node{
		{ID: "a", Point: orb.Point{-0.1337, 51.5099}, CostS: 0},
		{ID: "b", Point: orb.Point{-0.1327, 51.5099}, CostS: 100},
		{ID: "c", Point: orb.Point{-0.1317, 51.5099}, CostS: 200},
		{ID: "d", Point: orb.Point{-0.1307, 51.5099}, CostS: 300},
	}

	bands := builder.Build(nodes, nil, 10)

	require.Len(t, bands, 1)
	assert.Nil(t, bands[0].Ring)
	assert.Equal(t, 0.0, bands[0].AreaM2)
	assert.Equal(t, 4, bands[0].NodeCount)
}

func TestBandThresholds(t *testing.T) {
	tests := []struct {
		name      string
		band      []float64
		budgetMin float64
		want      []float64
	}{
		{name: "budget within defaults", band: []float64{5, 10, 15, 20}, budgetMin: 15, want: []float64{5, 10, 15}},
		{name: "budget appended", band: []float64{5, 10, 15, 20}, budgetMin: 12, want: []float64{5, 10, 12}},
		{name: "budget below all", band: []float64{5, 10}, budgetMin: 3, want: []float64{3}},
		{name: "unsorted input", band: []float64{20, 5, 15, 10}, budgetMin: 20, want: []float64{5, 10, 15, 20}},
		{name: "empty set", band: nil, budgetMin: 8, want: []float64{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bandThresholds(tt.band, tt.budgetMin))
		})
	}
}
