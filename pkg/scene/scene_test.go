package scene

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/layout"
	"github.com/ritzau/mindmap/pkg/model"
)

var fixedWidth = layout.MeasureFunc(func(s string) float64 { return float64(len(s)) * 7 })

func buildScene(t *testing.T, records model.Dataset) *Scene {
	t.Helper()
	s, err := Build(records, Options{Width: 800, Height: 600, Iterations: 50, Measurer: fixedWidth})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestBuildPinsAnchor(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "Stars"}, Connections: []model.Connection{{"Astronomy", "Stars"}}},
	})

	pos, ok := s.Position("Astronomy")
	if !ok || pos != (geometry.Point{X: 400, Y: 300}) {
		t.Errorf("Anchor at %v (ok=%v), want (400,300)", pos, ok)
	}

	shape, _ := s.Shape("Astronomy")
	if shape.Kind != layout.ShapeCircle || shape.Radius != 32 {
		t.Errorf("Anchor shape = %+v, want circle radius 32", shape)
	}
}

func TestSingleNodeTooltip(t *testing.T) {
	s := buildScene(t, model.Dataset{{Name: "A", Nodes: []string{"Comet"}}})

	pos, ok := s.Position("Comet")
	if !ok {
		t.Fatal("Comet has no position")
	}

	hit, ok := s.HitTest(pos)
	if !ok || hit.Kind != HitNode || hit.Label != "Comet" {
		t.Fatalf("HitTest = %+v, %v; want node Comet", hit, ok)
	}

	tip := s.Tooltip(hit, geometry.Point{X: 100, Y: 50}, false)
	if tip.X != 115 || tip.Y != 65 {
		t.Errorf("Tooltip at (%v,%v), want (115,65)", tip.X, tip.Y)
	}
	if tip.Title != "Comet" {
		t.Errorf("Title = %q, want Comet", tip.Title)
	}
	if !reflect.DeepEqual(tip.Contributors, []string{"A"}) {
		t.Errorf("Contributors = %v, want [A]", tip.Contributors)
	}
	if tip.ConnectedTo == nil || len(tip.ConnectedTo) != 0 {
		t.Errorf("ConnectedTo = %#v, want empty list", tip.ConnectedTo)
	}

	data, err := json.Marshal(tip)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"connectedTo":[]`) {
		t.Errorf("Tooltip JSON %s lacks an empty connectedTo list", data)
	}
}

func TestHitTestNodeBeatsEdge(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"Astronomy", "X"}}},
	})

	center, _ := s.Position("Astronomy")
	x, _ := s.Position("X")
	if x.X != center.X {
		t.Fatalf("Expected X straight above anchor, got %v", x)
	}

	tests := []struct {
		name  string
		point geometry.Point
		want  Hit
		ok    bool
	}{
		{
			name:  "on edge inside anchor circle",
			point: geometry.Point{X: center.X, Y: center.Y - 10},
			want:  Hit{Kind: HitNode, Label: "Astronomy"},
			ok:    true,
		},
		{
			name:  "on edge between nodes",
			point: geometry.Point{X: center.X + 1, Y: (center.Y + x.Y) / 2},
			want:  Hit{Kind: HitEdge, Edge: s.Aggregate.Edges.Keys()[0]},
			ok:    true,
		},
		{
			name:  "just outside edge threshold",
			point: geometry.Point{X: center.X + EdgeHitThreshold, Y: (center.Y + x.Y) / 2},
			ok:    false,
		},
		{
			name:  "empty space",
			point: geometry.Point{X: 0, Y: 0},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.HitTest(tt.point)
			if ok != tt.ok {
				t.Fatalf("HitTest ok = %v, want %v (hit %+v)", ok, tt.ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("HitTest = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDanglingEdgeSkipped(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy"}, Connections: []model.Connection{{"Astronomy", "Ghost"}}},
	})

	if _, ok := s.Position("Ghost"); ok {
		t.Error("Ghost should not be positioned")
	}
	if v := s.View(); len(v.Edges) != 0 {
		t.Errorf("View has %d edges, want 0", len(v.Edges))
	}
	if _, ok := s.EdgeAt(geometry.Point{X: 400, Y: 300}); ok {
		t.Error("Dangling edge should never be hit")
	}
}

func TestEdgeTooltip(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"X", "Astronomy"}}},
		{Name: "B", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"Astronomy", "X"}}},
	})

	key := s.Aggregate.Edges.Keys()[0]
	tip := s.Tooltip(Hit{Kind: HitEdge, Edge: key}, geometry.Point{}, true)

	if tip.Title != "Astronomy ↔ X" {
		t.Errorf("Title = %q", tip.Title)
	}
	if !reflect.DeepEqual(tip.Contributors, []string{"A", "B"}) {
		t.Errorf("Contributors = %v, want [A B]", tip.Contributors)
	}
	if tip.ConnectedTo != nil || tip.Expanded {
		t.Errorf("Edge tooltip should have no connected-to section: %+v", tip)
	}
}

func TestConnectedToKeepsDuplicates(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "X", "Y"}, Connections: []model.Connection{{"Astronomy", "X"}, {"Y", "Astronomy"}}},
		{Name: "B", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"X", "Astronomy"}}},
	})

	want := []string{"X", "Y", "X"}
	if got := s.ConnectedTo("Astronomy"); !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectedTo(Astronomy) = %v, want %v", got, want)
	}
}
