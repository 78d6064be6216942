// Package scene binds an aggregated dataset to its layout and shapes and
// answers the geometric queries the renderer and interaction controller need.
package scene

import (
	"fmt"

	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/graph"
	"github.com/ritzau/mindmap/pkg/layout"
	"github.com/ritzau/mindmap/pkg/model"
)

// DefaultAnchor is the label pinned at the centre of the map
const DefaultAnchor = "Astronomy"

// Options configures Build
type Options struct {
	Anchor          string
	Width           float64
	Height          float64
	MinNodeDistance float64
	Iterations      int
	Measurer        layout.TextMeasurer // nil selects the embedded UI font
}

// Scene is an immutable laid-out mind map
type Scene struct {
	Dataset   model.Dataset
	Anchor    string
	Width     float64
	Height    float64
	Aggregate *graph.Aggregates
	Positions *layout.Positions
	Shapes    map[string]layout.Shape

	neighbours map[string][]string
}

// Build aggregates records, lays them out around the viewport centre and
// sizes every node.
func Build(records model.Dataset, opts Options) (*Scene, error) {
	if opts.Anchor == "" {
		opts.Anchor = DefaultAnchor
	}

	measurer := opts.Measurer
	if measurer == nil {
		m, err := layout.NewFontMeasurer(layout.LabelFontSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create text measurer: %w", err)
		}
		measurer = m
	}

	agg := graph.Aggregate(records)
	positions := layout.Compute(agg.Nodes.Labels(), layout.Options{
		Anchor:          opts.Anchor,
		Center:          geometry.Point{X: opts.Width / 2, Y: opts.Height / 2},
		MinNodeDistance: opts.MinNodeDistance,
		Iterations:      opts.Iterations,
	})

	neighbours := make(map[string][]string)
	for _, conn := range agg.Connections {
		neighbours[conn[0]] = append(neighbours[conn[0]], conn[1])
		if conn[0] != conn[1] {
			neighbours[conn[1]] = append(neighbours[conn[1]], conn[0])
		}
	}

	return &Scene{
		Dataset:    records,
		Anchor:     opts.Anchor,
		Width:      opts.Width,
		Height:     opts.Height,
		Aggregate:  agg,
		Positions:  positions,
		Shapes:     layout.SizeShapes(agg.Nodes, opts.Anchor, measurer),
		neighbours: neighbours,
	}, nil
}

// Position returns the world position of label
func (s *Scene) Position(label string) (geometry.Point, bool) {
	return s.Positions.Get(label)
}

// Shape returns the drawn shape of label
func (s *Scene) Shape(label string) (layout.Shape, bool) {
	shape, ok := s.Shapes[label]
	return shape, ok
}

// ConnectedTo lists the other endpoint of every raw connection touching
// label, in dataset order with duplicates.
func (s *Scene) ConnectedTo(label string) []string {
	return s.neighbours[label]
}

// Contributor returns the record named name
func (s *Scene) Contributor(name string) (*model.Contributor, bool) {
	return s.Dataset.Find(name)
}
