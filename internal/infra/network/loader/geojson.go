// Package loader reads the pre-filtered street network handed over by the
// geospatial query layer: one GeoJSON FeatureCollection of segments and
// one of connectors.
package loader

import (
	"os"

	"pedshed/internal/errors"
	"pedshed/internal/infra/network"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NetworkData holds a loaded street network.
type NetworkData struct {
	Segments   []network.Segment
	Connectors []network.ConnectorRecord
}

// GeoJSONLoader loads segment and connector FeatureCollections from disk.
type GeoJSONLoader struct {
	segmentsPath   string
	connectorsPath string
	walkableOnly   bool
}

// NewGeoJSONLoader creates a loader for the given file paths.
func NewGeoJSONLoader(segmentsPath, connectorsPath string, walkableOnly bool) *GeoJSONLoader {
	return &GeoJSONLoader{
		segmentsPath:   segmentsPath,
		connectorsPath: connectorsPath,
		walkableOnly:   walkableOnly,
	}
}

// Load reads both collections.
func (l *GeoJSONLoader) Load() (*NetworkData, error) {
	segments, err := l.LoadSegments()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	connectors, err := l.LoadConnectors()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &NetworkData{Segments: segments, Connectors: connectors}, nil
}

// LoadSegments reads the segment FeatureCollection. Expected properties per
// feature: id, class, subtype, length_m and a connectors array of
// {connector_id, at} objects ordered or unordered along the segment.
func (l *GeoJSONLoader) LoadSegments() ([]network.Segment, error) {
	collection, err := readCollection(l.segmentsPath)
	if err != nil {
		return nil, err
	}

	segments := make([]network.Segment, 0, len(collection.Features))
	for _, feature := range collection.Features {
		segment := parseSegment(feature)
		if l.walkableOnly && !network.Walkable(segment) {
			continue
		}
		segments = append(segments, segment)
	}

	return segments, nil
}

// LoadConnectors reads the connector FeatureCollection. Each feature is a
// Point with an id property.
func (l *GeoJSONLoader) LoadConnectors() ([]network.ConnectorRecord, error) {
	collection, err := readCollection(l.connectorsPath)
	if err != nil {
		return nil, err
	}

	connectors := make([]network.ConnectorRecord, 0, len(collection.Features))
	for _, feature := range collection.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			continue
		}

		id := feature.Properties.MustString("id", "")
		if id == "" {
			continue
		}

		connectors = append(connectors, network.ConnectorRecord{
			ID:  id,
			Lat: point[1],
			Lng: point[0],
		})
	}

	return connectors, nil
}

func readCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return collection, nil
}

func parseSegment(feature *geojson.Feature) network.Segment {
	segment := network.Segment{
		ID:      feature.Properties.MustString("id", ""),
		Class:   feature.Properties.MustString("class", ""),
		Subtype: feature.Properties.MustString("subtype", ""),
		LengthM: feature.Properties.MustFloat64("length_m", 0),
	}

	// The query layer normally supplies the spheroid length; fall back to
	// summing the geometry when it is absent.
	if segment.LengthM <= 0 {
		segment.LengthM = lineLength(feature.Geometry)
	}

	segment.Connectors = parseConnectorRefs(feature.Properties["connectors"])

	return segment
}

// parseConnectorRefs normalizes the raw connectors property into tagged
// {connectorId, position} records, resolving the representation once at
// ingestion.
func parseConnectorRefs(raw any) []network.ConnectorRef {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	refs := make([]network.ConnectorRef, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		id, _ := obj["connector_id"].(string)
		if id == "" {
			id, _ = obj["id"].(string)
		}
		if id == "" {
			continue
		}

		position, _ := obj["at"].(float64)
		refs = append(refs, network.ConnectorRef{ConnectorID: id, Position: position})
	}

	return refs
}

func lineLength(geom orb.Geometry) float64 {
	line, ok := geom.(orb.LineString)
	if !ok {
		return 0
	}

	total := 0.0
	for i := 1; i < len(line); i++ {
		total += network.HaversineDistance(line[i-1], line[i])
	}

	return total
}
