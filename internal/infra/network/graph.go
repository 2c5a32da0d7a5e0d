package network

import (
	"log/slog"
	"sort"
)

// ConnectorRef is a normalized reference from a segment to a connector,
// with the connector's linear-reference position along the segment (0..1).
type ConnectorRef struct {
	ConnectorID string
	Position    float64
}

// Segment is a raw street-geometry record handed over by the query layer.
type Segment struct {
	ID         string
	Class      string
	Subtype    string
	LengthM    float64
	Connectors []ConnectorRef
}

// SubEdge is a derived edge between two connectors that are consecutive
// along a segment. Cost is traversal time in seconds at walking speed.
type SubEdge struct {
	To      string
	CostS   float64
	LengthM float64
}

// GraphStats carries diagnostic counters from a graph build.
type GraphStats struct {
	Nodes           int `json:"nodes"`
	SubEdges        int `json:"sub_edges"`
	SkippedSegments int `json:"skipped_segments"`
}

// Graph is the undirected walking graph: adjacency from connector ID to
// outgoing sub-edges. Built once per query, read-only thereafter.
type Graph struct {
	adjacency map[string][]SubEdge
	stats     GraphStats
}

// Neighbors returns the sub-edges leaving a connector.
func (g *Graph) Neighbors(id string) []SubEdge {
	return g.adjacency[id]
}

// Stats returns the build counters.
func (g *Graph) Stats() GraphStats {
	return g.stats
}

// NodeCount returns the number of connectors with at least one edge.
func (g *Graph) NodeCount() int {
	return len(g.adjacency)
}

// BuildGraph splits segments at their connectors into bidirectional
// sub-edges weighted by walking time.
//
// A segment is skipped when fewer than two of its connector references
// resolve in the table. Reference pairs with a non-positive position
// delta, a zero sub-length, or the same connector on both ends are
// degenerate input and contribute no edge, keeping every edge cost
// strictly positive and the graph free of self-loops.
func BuildGraph(segments []Segment, table *ConnectorTable, walkSpeedMS float64, logger *slog.Logger) *Graph {
	graph := &Graph{adjacency: make(map[string][]SubEdge)}

	for _, segment := range segments {
		refs := resolveRefs(segment.Connectors, table)
		if len(refs) < 2 {
			graph.stats.SkippedSegments++
			if logger != nil {
				logger.Debug("skipping segment with unresolvable connectors",
					slog.String("segment_id", segment.ID),
					slog.Int("resolved", len(refs)),
				)
			}

			continue
		}

		// Stable sort keeps original list order for duplicate positions
		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].Position < refs[j].Position
		})

		for i := 0; i < len(refs)-1; i++ {
			span := refs[i+1].Position - refs[i].Position
			if span <= 0 {
				continue
			}

			subLen := segment.LengthM * span
			if subLen <= 0 {
				continue
			}
			cost := subLen / walkSpeedMS

			from, to := refs[i].ConnectorID, refs[i+1].ConnectorID
			if from == to {
				continue
			}
			graph.adjacency[from] = append(graph.adjacency[from], SubEdge{To: to, CostS: cost, LengthM: subLen})
			graph.adjacency[to] = append(graph.adjacency[to], SubEdge{To: from, CostS: cost, LengthM: subLen})
			graph.stats.SubEdges++
		}
	}

	graph.stats.Nodes = len(graph.adjacency)

	return graph
}

// resolveRefs keeps only references whose connector exists in the table.
func resolveRefs(refs []ConnectorRef, table *ConnectorTable) []ConnectorRef {
	resolved := make([]ConnectorRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := table.Lookup(ref.ConnectorID); ok {
			resolved = append(resolved, ref)
		}
	}

	return resolved
}
