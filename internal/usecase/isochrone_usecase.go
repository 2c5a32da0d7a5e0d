package usecase

import (
	"context"

	"github.com/paulmach/orb/geojson"
)

// Coordinate represents a geographic coordinate
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsochroneRequest describes a walkability query around an origin point.
// Zero values for WalkMinutes and WalkSpeedKmh fall back to configured
// defaults. Field-presence validation happens at the delivery layer.
type IsochroneRequest struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	WalkMinutes  float64 `json:"walk_minutes"`
	WalkSpeedKmh float64 `json:"walk_speed_kmh"`
}

// OriginSnap describes how the query point was attached to the network.
type OriginSnap struct {
	ConnectorID string     `json:"connector_id"`
	Location    Coordinate `json:"location"`
	DistanceM   float64    `json:"distance_m"` // Straight-line distance from the query point
}

// ReachableNode is one network node reached within the walk budget.
type ReachableNode struct {
	ID       string     `json:"id"`
	Location Coordinate `json:"location"`
	CostS    float64    `json:"cost_s"`
	CostMin  float64    `json:"cost_min"`
}

// IsochroneBand is the reachable envelope at one time threshold. Polygon is
// null when the band's points were too degenerate to form a hull.
type IsochroneBand struct {
	ThresholdMin float64           `json:"threshold_min"`
	NodeCount    int               `json:"node_count"`
	Polygon      *geojson.Geometry `json:"polygon"`
	AreaM2       float64           `json:"area_m2"`
	AreaHa       float64           `json:"area_ha"`
	AreaKm2      float64           `json:"area_km2"`
}

// Diagnostics carries graph and search counters for the query.
type Diagnostics struct {
	GraphNodes      int `json:"graph_nodes"`
	GraphSubEdges   int `json:"graph_sub_edges"`
	SkippedSegments int `json:"skipped_segments"`
	ExploredNodes   int `json:"explored_nodes"`
}

// IsochroneResult is the full outcome of a walkability query.
type IsochroneResult struct {
	Origin        Coordinate      `json:"origin"`
	Snap          OriginSnap      `json:"snap"`
	WalkMinutes   float64         `json:"walk_minutes"`
	WalkSpeedKmh  float64         `json:"walk_speed_kmh"`
	WalkRangeM    float64         `json:"walk_range_m"` // Speed x budget, the theoretical straight-line reach
	Bands         []IsochroneBand `json:"bands"`
	Reachable     []ReachableNode `json:"reachable"`
	CircleAreaKm2 float64         `json:"circle_area_km2"`
	PedshedRatio  float64         `json:"pedshed_ratio"`
	Diagnostics   Diagnostics     `json:"diagnostics"`
}

// IsochroneUsecase defines the interface for walk-reach analysis use cases
type IsochroneUsecase interface {
	// Compute runs the full pipeline for one origin: snap, graph search,
	// band construction, and pedshed ratio
	Compute(ctx context.Context, req IsochroneRequest) (*IsochroneResult, error)

	// ExportGeoJSON runs Compute and renders the result as a
	// FeatureCollection of origin point, band polygons, and reachable nodes
	ExportGeoJSON(ctx context.Context, req IsochroneRequest) (*geojson.FeatureCollection, error)
}
