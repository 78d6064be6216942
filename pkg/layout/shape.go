package layout

import (
	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/graph"
)

const (
	anchorBaseRadius     = 30.0
	anchorRadiusPerVoter = 2.0
	labelPadding         = 16.0
	minRectWidth         = 80.0
	rectHeight           = 40.0
)

// ShapeKind distinguishes the anchor circle from ordinary rectangles
type ShapeKind string

const (
	ShapeCircle ShapeKind = "circle"
	ShapeRect   ShapeKind = "rect"
)

// Shape is the drawn footprint of a node
type Shape struct {
	Kind   ShapeKind `json:"type"`
	Radius float64   `json:"radius,omitempty"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// Contains reports whether p hits the shape centred at center
func (s Shape) Contains(center, p geometry.Point) bool {
	if s.Kind == ShapeCircle {
		return geometry.Circle{Center: center, Radius: s.Radius}.Contains(p)
	}
	return geometry.Rect{Center: center, Width: s.Width, Height: s.Height}.Contains(p)
}

// AnchorShape sizes the anchor circle by how many contributors listed it
func AnchorShape(contributors int) Shape {
	r := anchorBaseRadius + anchorRadiusPerVoter*float64(contributors)
	return Shape{Kind: ShapeCircle, Radius: r, Width: 2 * r, Height: 2 * r}
}

// LabelShape sizes a rectangle around a label of the given rendered width
func LabelShape(textWidth float64) Shape {
	return Shape{
		Kind:   ShapeRect,
		Width:  max(textWidth+2*labelPadding, minRectWidth),
		Height: rectHeight,
	}
}

// SizeShapes computes a shape for every aggregated node
func SizeShapes(nodes *graph.NodeAggregate, anchor string, m TextMeasurer) map[string]Shape {
	shapes := make(map[string]Shape, nodes.Len())
	for _, label := range nodes.Labels() {
		if label == anchor {
			shapes[label] = AnchorShape(len(nodes.Contributors(label)))
			continue
		}
		shapes[label] = LabelShape(m.MeasureText(label))
	}
	return shapes
}
