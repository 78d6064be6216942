package scene

import (
	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/graph"
)

// EdgeHitThreshold is the maximum world-space distance from an edge
// segment that still counts as a hit
const EdgeHitThreshold = 2.0

// HitKind tells what a hit test found
type HitKind string

const (
	HitNode HitKind = "node"
	HitEdge HitKind = "edge"
)

// Hit is the result of a successful hit test
type Hit struct {
	Kind  HitKind
	Label string        // Set for node hits
	Edge  graph.EdgeKey // Set for edge hits
}

// NodeAt returns the first node, in aggregate order, whose shape contains p
func (s *Scene) NodeAt(p geometry.Point) (string, bool) {
	for _, label := range s.Aggregate.Nodes.Labels() {
		pos, ok := s.Positions.Get(label)
		if !ok {
			continue
		}
		shape, ok := s.Shapes[label]
		if !ok {
			continue
		}
		if shape.Contains(pos, p) {
			return label, true
		}
	}
	return "", false
}

// EdgeAt returns the first edge, in aggregate order, within
// EdgeHitThreshold of p. Edges with an unpositioned endpoint are skipped.
func (s *Scene) EdgeAt(p geometry.Point) (graph.EdgeKey, bool) {
	for _, key := range s.Aggregate.Edges.Keys() {
		a, okA := s.Positions.Get(key.A)
		b, okB := s.Positions.Get(key.B)
		if !okA || !okB {
			continue
		}
		if geometry.DistanceToSegment(p, a, b) < EdgeHitThreshold {
			return key, true
		}
	}
	return graph.EdgeKey{}, false
}

// HitTest checks nodes before edges; the first hit wins
func (s *Scene) HitTest(p geometry.Point) (Hit, bool) {
	if label, ok := s.NodeAt(p); ok {
		return Hit{Kind: HitNode, Label: label}, true
	}
	if key, ok := s.EdgeAt(p); ok {
		return Hit{Kind: HitEdge, Edge: key}, true
	}
	return Hit{}, false
}
