package scene

import (
	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/layout"
)

// View is the JSON representation of a scene served to clients
type View struct {
	Anchor       string     `json:"anchor"`
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	Contributors []string   `json:"contributors"`
	Nodes        []NodeView `json:"nodes"`
	Edges        []EdgeView `json:"edges"`
}

// NodeView is a positioned, sized node
type NodeView struct {
	Label        string         `json:"label"`
	Position     geometry.Point `json:"position"`
	Shape        layout.Shape   `json:"shape"`
	Contributors []string       `json:"contributors"`
}

// EdgeView is an aggregated edge
type EdgeView struct {
	Key          string   `json:"key"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	Contributors []string `json:"contributors"`
}

// View returns the serialisable form of s. Nodes and edges lacking a
// position are left out.
func (s *Scene) View() *View {
	v := &View{
		Anchor:       s.Anchor,
		Width:        s.Width,
		Height:       s.Height,
		Contributors: s.Dataset.Names(),
		Nodes:        make([]NodeView, 0, s.Aggregate.Nodes.Len()),
		Edges:        make([]EdgeView, 0, s.Aggregate.Edges.Len()),
	}

	for _, label := range s.Aggregate.Nodes.Labels() {
		pos, ok := s.Positions.Get(label)
		if !ok {
			continue
		}
		v.Nodes = append(v.Nodes, NodeView{
			Label:        label,
			Position:     pos,
			Shape:        s.Shapes[label],
			Contributors: s.Aggregate.Nodes.Contributors(label),
		})
	}

	for _, key := range s.Aggregate.Edges.Keys() {
		_, okA := s.Positions.Get(key.A)
		_, okB := s.Positions.Get(key.B)
		if !okA || !okB {
			continue
		}
		v.Edges = append(v.Edges, EdgeView{
			Key:          key.String(),
			From:         key.A,
			To:           key.B,
			Contributors: s.Aggregate.Edges.Contributors(key),
		})
	}

	return v
}
