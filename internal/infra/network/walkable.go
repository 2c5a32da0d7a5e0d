package network

// walkableClasses are the Overture road classes a pedestrian can use.
var walkableClasses = map[string]struct{}{
	"residential":   {},
	"tertiary":      {},
	"secondary":     {},
	"primary":       {},
	"living_street": {},
	"pedestrian":    {},
	"footway":       {},
	"path":          {},
	"cycleway":      {},
	"unclassified":  {},
	"service":       {},
	"steps":         {},
	"track":         {},
}

// Walkable reports whether a segment is part of the pedestrian network.
func Walkable(segment Segment) bool {
	if segment.Subtype != "road" {
		return false
	}

	_, ok := walkableClasses[segment.Class]

	return ok
}

// FilterWalkable returns only the segments a pedestrian can traverse.
func FilterWalkable(segments []Segment) []Segment {
	walkable := make([]Segment, 0, len(segments))
	for _, segment := range segments {
		if Walkable(segment) {
			walkable = append(walkable, segment)
		}
	}

	return walkable
}
