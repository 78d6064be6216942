package scene

import (
	"github.com/ritzau/mindmap/pkg/geometry"
)

// TooltipOffset is the screen distance between the pointer and the tooltip
const TooltipOffset = 15.0

// Tooltip describes the hover box for a node or edge
type Tooltip struct {
	Kind         HitKind  `json:"kind"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Title        string   `json:"title"`
	Contributors []string `json:"contributors"`

	// ConnectedTo is nil for edge tooltips. For nodes without connections it
	// is empty and still encoded, so clients can show an empty list.
	ConnectedTo []string `json:"connectedTo"`
	Expanded    bool     `json:"expanded,omitempty"`
}

// Tooltip builds the tooltip for hit with the pointer at screen position
// pointer. Expanded marks the connected-to section as open.
func (s *Scene) Tooltip(hit Hit, pointer geometry.Point, expanded bool) Tooltip {
	tip := Tooltip{
		Kind: hit.Kind,
		X:    pointer.X + TooltipOffset,
		Y:    pointer.Y + TooltipOffset,
	}

	switch hit.Kind {
	case HitNode:
		tip.Title = hit.Label
		tip.Contributors = s.Aggregate.Nodes.Contributors(hit.Label)
		tip.ConnectedTo = append([]string{}, s.ConnectedTo(hit.Label)...)
		tip.Expanded = expanded
	case HitEdge:
		tip.Title = hit.Edge.A + " ↔ " + hit.Edge.B
		tip.Contributors = s.Aggregate.Edges.Contributors(hit.Edge)
	}

	if tip.Contributors == nil {
		tip.Contributors = []string{}
	}
	return tip
}
