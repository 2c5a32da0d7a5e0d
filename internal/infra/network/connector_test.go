package network

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectorTable(t *testing.T) {
	table := NewConnectorTable([]ConnectorRecord{
		{ID: "a", Lat: 51.5099, Lng: -0.1337},
		{ID: "b", Lat: 51.5134, Lng: -0.1365},
	})

	assert.Equal(t, 2, table.Len())

	point, ok := table.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, orb.Point{-0.1337, 51.5099}, point)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)
}

func TestNewConnectorTable_DuplicateIDs(t *testing.T) {
	table := NewConnectorTable([]ConnectorRecord{
		{ID: "a", Lat: 51.50, Lng: -0.10},
		{ID: "a", Lat: 51.51, Lng: -0.11},
	})

	// Last record wins
	assert.Equal(t, 1, table.Len())
	point, ok := table.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, orb.Point{-0.11, 51.51}, point)
}

func TestConnectorTable_NearestConnector(t *testing.T) {
	table := NewConnectorTable([]ConnectorRecord{
		{ID: "piccadilly", Lat: 51.5099, Lng: -0.1337},
		{ID: "soho", Lat: 51.5134, Lng: -0.1365},
		{ID: "canary", Lat: 51.5054, Lng: -0.0235},
	})

	// Query right next to Piccadilly Circus
	id, point, dist, err := table.NearestConnector(51.5101, -0.1340)

	require.NoError(t, err)
	assert.Equal(t, "piccadilly", id)
	assert.InDelta(t, -0.1337, point[0], 0.0001)
	assert.InDelta(t, 51.5099, point[1], 0.0001)
	assert.Greater(t, dist, 0.0)
	assert.Less(t, dist, 50.0)
}

func TestConnectorTable_NearestConnector_Empty(t *testing.T) {
	table := NewConnectorTable(nil)

	_, _, _, err := table.NearestConnector(51.5, -0.13)

	assert.ErrorIs(t, err, ErrNoConnectors)
}

func TestConnectorTable_NearestConnector_ExactMatch(t *testing.T) {
	table := NewConnectorTable([]ConnectorRecord{
		{ID: "a", Lat: 51.5099, Lng: -0.1337},
	})

	id, _, dist, err := table.NearestConnector(51.5099, -0.1337)

	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.InDelta(t, 0.0, dist, 0.01)
}

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name        string
		p1          orb.Point
		p2          orb.Point
		expectedMin float64
		expectedMax float64
	}{
		{
			name:        "same point",
			p1:          orb.Point{-0.1337, 51.5099},
			p2:          orb.Point{-0.1337, 51.5099},
			expectedMin: 0,
			expectedMax: 0.01,
		},
		{
			name:        "Piccadilly Circus to Canary Wharf (~7.6km)",
			p1:          orb.Point{-0.1337, 51.5099},
			p2:          orb.Point{-0.0235, 51.5054},
			expectedMin: 7000,
			expectedMax: 8000,
		},
		{
			name:        "short distance (~70m)",
			p1:          orb.Point{-0.1337, 51.5099},
			p2:          orb.Point{-0.1347, 51.5099},
			expectedMin: 60,
			expectedMax: 80,
		},
		{
			name:        "cross equator",
			p1:          orb.Point{0.0, 1.0},
			p2:          orb.Point{0.0, -1.0},
			expectedMin: 220000,
			expectedMax: 230000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := HaversineDistance(tt.p1, tt.p2)
			assert.GreaterOrEqual(t, dist, tt.expectedMin)
			assert.LessOrEqual(t, dist, tt.expectedMax)
		})
	}
}
