package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkable(t *testing.T) {
	tests := []struct {
		name    string
		segment Segment
		want    bool
	}{
		{name: "residential road", segment: Segment{Class: "residential", Subtype: "road"}, want: true},
		{name: "footway", segment: Segment{Class: "footway", Subtype: "road"}, want: true},
		{name: "steps", segment: Segment{Class: "steps", Subtype: "road"}, want: true},
		{name: "motorway excluded", segment: Segment{Class: "motorway", Subtype: "road"}, want: false},
		{name: "trunk excluded", segment: Segment{Class: "trunk", Subtype: "road"}, want: false},
		{name: "rail subtype excluded", segment: Segment{Class: "residential", Subtype: "rail"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Walkable(tt.segment))
		})
	}
}

func TestFilterWalkable(t *testing.T) {
	segments := []Segment{
		{ID: "s1", Class: "residential", Subtype: "road"},
		{ID: "s2", Class: "motorway", Subtype: "road"},
		{ID: "s3", Class: "path", Subtype: "road"},
	}

	walkable := FilterWalkable(segments)

	assert.Len(t, walkable, 2)
	assert.Equal(t, "s1", walkable[0].ID)
	assert.Equal(t, "s3", walkable[1].ID)
}
