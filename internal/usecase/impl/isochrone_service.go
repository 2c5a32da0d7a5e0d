package impl

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"pedshed/config"
	"pedshed/internal/infra/geometry"
	"pedshed/internal/infra/isochrone"
	"pedshed/internal/infra/network"
	"pedshed/internal/infra/network/loader"
	"pedshed/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// NetworkSource supplies the street network. Satisfied by
// loader.GeoJSONLoader.
type NetworkSource interface {
	Load() (*loader.NetworkData, error)
}

type isochroneService struct {
	source NetworkSource
	bands  *isochrone.BandBuilder
	logger *slog.Logger

	defaultSpeedKmh float64
	defaultWalkMin  float64
	bandMinutes     []float64

	// Network data is immutable once loaded; the graph is rebuilt per
	// request because sub-edge costs depend on the requested walk speed.
	loadOnce sync.Once
	loadErr  error
	segments []network.Segment
	table    *network.ConnectorTable
}

// NewIsochroneService creates a new isochrone service instance
func NewIsochroneService(
	cfg *config.IsochroneConfig,
	source NetworkSource,
	hulls geometry.HullService,
	logger *slog.Logger,
) usecase.IsochroneUsecase {
	// config.New applies these already; guard again for hand-built configs
	speedKmh := cfg.DefaultSpeedKmh
	if speedKmh <= 0 {
		speedKmh = config.DefaultWalkSpeedKmh
	}

	walkMin := cfg.DefaultWalkMinutes
	if walkMin <= 0 {
		walkMin = config.DefaultWalkMinutes
	}

	return &isochroneService{
		source:          source,
		bands:           isochrone.NewBandBuilder(hulls, logger),
		logger:          logger,
		defaultSpeedKmh: speedKmh,
		defaultWalkMin:  walkMin,
		bandMinutes:     cfg.BandMinutes,
	}
}

// Compute runs the full pipeline for one origin
func (s *isochroneService) Compute(ctx context.Context, req usecase.IsochroneRequest) (*usecase.IsochroneResult, error) {
	if !isValidCoordinate(req.Lat, req.Lng) {
		return nil, errors.New("coordinate is outside valid bounds")
	}

	walkMinutes := req.WalkMinutes
	if walkMinutes <= 0 {
		walkMinutes = s.defaultWalkMin
	}

	speedKmh := req.WalkSpeedKmh
	if speedKmh <= 0 {
		speedKmh = s.defaultSpeedKmh
	}

	speedMS := speedKmh / 3.6
	budgetS := walkMinutes * 60
	walkRangeM := speedMS * budgetS

	segments, table, err := s.network()
	if err != nil {
		return nil, err
	}

	snapID, snapPoint, snapDist, err := table.NearestConnector(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	graph := network.BuildGraph(segments, table, speedMS, s.logger)

	result := isochrone.Search(graph, snapID, budgetS)

	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), "isochrone calculation canceled")
	}

	nodes, reachable := s.collectReachable(table, result.Costs)

	bands := s.bands.Build(nodes, s.bandMinutes, walkMinutes)

	isochroneAreaKm2 := 0.0
	if len(bands) > 0 {
		isochroneAreaKm2 = bands[len(bands)-1].AreaKm2
	}
	circleAreaKm2 := isochrone.CircleAreaKm2(walkRangeM)

	stats := graph.Stats()

	return &usecase.IsochroneResult{
		Origin: usecase.Coordinate{Lat: req.Lat, Lng: req.Lng},
		Snap: usecase.OriginSnap{
			ConnectorID: snapID,
			Location:    usecase.Coordinate{Lat: snapPoint[1], Lng: snapPoint[0]},
			DistanceM:   snapDist,
		},
		WalkMinutes:   walkMinutes,
		WalkSpeedKmh:  speedKmh,
		WalkRangeM:    walkRangeM,
		Bands:         toBandDTOs(bands),
		Reachable:     reachable,
		CircleAreaKm2: circleAreaKm2,
		PedshedRatio:  isochrone.PedshedRatio(isochroneAreaKm2, circleAreaKm2),
		Diagnostics: usecase.Diagnostics{
			GraphNodes:      stats.Nodes,
			GraphSubEdges:   stats.SubEdges,
			SkippedSegments: stats.SkippedSegments,
			ExploredNodes:   result.Explored,
		},
	}, nil
}

// ExportGeoJSON runs Compute and renders the result as a FeatureCollection
func (s *isochroneService) ExportGeoJSON(ctx context.Context, req usecase.IsochroneRequest) (*geojson.FeatureCollection, error) {
	result, err := s.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	collection := geojson.NewFeatureCollection()

	origin := geojson.NewFeature(orb.Point{result.Origin.Lng, result.Origin.Lat})
	origin.Properties = geojson.Properties{
		"kind":            "origin",
		"connector_id":    result.Snap.ConnectorID,
		"snap_distance_m": result.Snap.DistanceM,
		"walk_minutes":    result.WalkMinutes,
		"walk_speed_kmh":  result.WalkSpeedKmh,
		"pedshed_ratio":   result.PedshedRatio,
	}
	collection.Append(origin)

	// Largest band first so smaller bands render on top
	for i := len(result.Bands) - 1; i >= 0; i-- {
		band := result.Bands[i]
		if band.Polygon == nil {
			continue
		}

		feature := geojson.NewFeature(band.Polygon.Geometry())
		feature.Properties = geojson.Properties{
			"kind":          "band",
			"threshold_min": band.ThresholdMin,
			"node_count":    band.NodeCount,
			"area_m2":       band.AreaM2,
			"area_ha":       band.AreaHa,
			"area_km2":      band.AreaKm2,
		}
		collection.Append(feature)
	}

	for _, node := range result.Reachable {
		feature := geojson.NewFeature(orb.Point{node.Location.Lng, node.Location.Lat})
		feature.Properties = geojson.Properties{
			"kind":     "node",
			"id":       node.ID,
			"cost_min": node.CostMin,
		}
		collection.Append(feature)
	}

	return collection, nil
}

// network loads the street network once and reuses it across requests.
func (s *isochroneService) network() ([]network.Segment, *network.ConnectorTable, error) {
	s.loadOnce.Do(func() {
		data, err := s.source.Load()
		if err != nil {
			s.loadErr = err

			return
		}

		s.segments = data.Segments
		s.table = network.NewConnectorTable(data.Connectors)

		if s.logger != nil {
			s.logger.Info("street network loaded",
				slog.Int("segments", len(s.segments)),
				slog.Int("connectors", s.table.Len()),
			)
		}
	})

	if s.loadErr != nil {
		return nil, nil, s.loadErr
	}

	return s.segments, s.table, nil
}

// collectReachable resolves search costs back to coordinates, dropping ids
// absent from the connector table.
func (s *isochroneService) collectReachable(table *network.ConnectorTable, costs map[string]float64) ([]isochrone.Node, []usecase.ReachableNode) {
	nodes := make([]isochrone.Node, 0, len(costs))
	reachable := make([]usecase.ReachableNode, 0, len(costs))

	for id, cost := range costs {
		point, ok := table.Lookup(id)
		if !ok {
			continue
		}

		nodes = append(nodes, isochrone.Node{ID: id, Point: point, CostS: cost})
		reachable = append(reachable, usecase.ReachableNode{
			ID:       id,
			Location: usecase.Coordinate{Lat: point[1], Lng: point[0]},
			CostS:    cost,
			CostMin:  cost / 60,
		})
	}

	sort.Slice(reachable, func(i, j int) bool {
		if reachable[i].CostS != reachable[j].CostS {
			return reachable[i].CostS < reachable[j].CostS
		}

		return reachable[i].ID < reachable[j].ID
	})

	return nodes, reachable
}

func toBandDTOs(bands []isochrone.Band) []usecase.IsochroneBand {
	dtos := make([]usecase.IsochroneBand, 0, len(bands))
	for _, band := range bands {
		dto := usecase.IsochroneBand{
			ThresholdMin: band.ThresholdMin,
			NodeCount:    band.NodeCount,
			AreaM2:       band.AreaM2,
			AreaHa:       band.AreaHa,
			AreaKm2:      band.AreaKm2,
		}
		if band.Ring != nil {
			dto.Polygon = geojson.NewGeometry(orb.Polygon{band.Ring})
		}
		dtos = append(dtos, dto)
	}

	return dtos
}

// isValidCoordinate checks if a coordinate is within valid geographic bounds
func isValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) ||
		math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
