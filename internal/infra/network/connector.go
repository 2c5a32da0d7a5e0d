package network

import (
	"math"

	"pedshed/internal/errors"

	"github.com/paulmach/orb"
)

// ErrNoConnectors is returned when an origin snap is attempted against an
// empty connector table.
var ErrNoConnectors = errors.New("no connectors available")

// ConnectorRecord is a raw connector row handed over by the query layer.
type ConnectorRecord struct {
	ID  string
	Lat float64
	Lng float64
}

// ConnectorTable maps connector identifiers to their positions.
// It is built once per request and read-only afterwards.
type ConnectorTable struct {
	points map[string]orb.Point
}

// NewConnectorTable builds a table from raw connector records.
// Later duplicates of the same identifier overwrite earlier ones.
func NewConnectorTable(records []ConnectorRecord) *ConnectorTable {
	points := make(map[string]orb.Point, len(records))
	for _, record := range records {
		points[record.ID] = orb.Point{record.Lng, record.Lat}
	}

	return &ConnectorTable{points: points}
}

// Lookup returns the position of a connector and whether it is known.
func (t *ConnectorTable) Lookup(id string) (orb.Point, bool) {
	point, ok := t.points[id]

	return point, ok
}

// Len returns the number of connectors in the table.
func (t *ConnectorTable) Len() int {
	return len(t.points)
}

// NearestConnector snaps a query point to the closest connector by
// great-circle distance. Returns the connector ID, its position and the
// snap distance in meters, or ErrNoConnectors when the table is empty.
func (t *ConnectorTable) NearestConnector(lat, lng float64) (string, orb.Point, float64, error) {
	if len(t.points) == 0 {
		return "", orb.Point{}, 0, ErrNoConnectors
	}

	query := orb.Point{lng, lat}

	var nearestID string
	var nearestPoint orb.Point
	nearestDist := math.MaxFloat64

	for id, point := range t.points {
		dist := HaversineDistance(query, point)
		if dist < nearestDist {
			nearestDist = dist
			nearestID = id
			nearestPoint = point
		}
	}

	return nearestID, nearestPoint, nearestDist, nil
}

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(p1, p2 orb.Point) float64 {
	const earthRadiusM = 6371000.0

	lat1Rad := p1[1] * math.Pi / 180
	lng1Rad := p1[0] * math.Pi / 180
	lat2Rad := p2[1] * math.Pi / 180
	lng2Rad := p2[0] * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLng := lng2Rad - lng1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}
