package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/ritzau/mindmap/pkg/layout"
	"github.com/ritzau/mindmap/pkg/model"
	"github.com/ritzau/mindmap/pkg/scene"
)

var fixedWidth = layout.MeasureFunc(func(s string) float64 { return float64(len(s)) * 7 })

func buildScene(t *testing.T, records model.Dataset) *scene.Scene {
	t.Helper()
	s, err := scene.Build(records, scene.Options{Width: 800, Height: 600, Iterations: 50, Measurer: fixedWidth})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func countKind(cmds []Command, kind Kind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

var identity = Camera{Scale: 1}

func TestRenderSharedEdge(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"Astronomy", "X"}}},
		{Name: "B", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"X", "Astronomy"}}},
	})

	cmds := Render(s, View{Camera: identity, Width: 800, Height: 600})

	if cmds[0].Kind != KindClear || cmds[1].Kind != KindTransform {
		t.Fatalf("Expected clear then transform, got %s, %s", cmds[0].Kind, cmds[1].Kind)
	}

	if n := countKind(cmds, KindLine); n != 1 {
		t.Fatalf("Expected 1 line, got %d", n)
	}
	edge := cmds[2]
	if edge.Kind != KindLine {
		t.Fatalf("Edges should be drawn before nodes, got %s", edge.Kind)
	}
	if math.Abs(edge.Stroke.A-0.6) > 1e-9 {
		t.Errorf("Edge opacity = %v, want 0.6", edge.Stroke.A)
	}
	if edge.LineWidth != 2.0 {
		t.Errorf("Edge width = %v, want 2.0", edge.LineWidth)
	}
	if got := edge.Stroke.String(); got != "rgba(96, 165, 250, 0.6)" {
		t.Errorf("Edge colour = %s", got)
	}
}

func TestEdgeStyle(t *testing.T) {
	tests := []struct {
		count   int
		opacity float64
		width   float64
	}{
		{1, 0.45, 1.5},
		{2, 0.6, 2},
		{4, 0.9, 3},
		{5, 1, 3.5},
		{10, 1, 6},
	}

	for _, tt := range tests {
		if got := EdgeOpacity(tt.count); math.Abs(got-tt.opacity) > 1e-9 {
			t.Errorf("EdgeOpacity(%d) = %v, want %v", tt.count, got, tt.opacity)
		}
		if got := EdgeWidth(tt.count); got != tt.width {
			t.Errorf("EdgeWidth(%d) = %v, want %v", tt.count, got, tt.width)
		}
	}
}

func TestRenderSingleNode(t *testing.T) {
	s := buildScene(t, model.Dataset{{Name: "A", Nodes: []string{"Comet"}}})

	cmds := Render(s, View{Camera: identity, Width: 800, Height: 600})

	if n := countKind(cmds, KindRoundRect); n != 1 {
		t.Errorf("Expected 1 rectangle, got %d", n)
	}
	if n := countKind(cmds, KindLine); n != 0 {
		t.Errorf("Expected 0 lines, got %d", n)
	}
	if n := countKind(cmds, KindCircle); n != 0 {
		t.Errorf("Expected 0 circles, got %d", n)
	}

	for _, c := range cmds {
		if c.Kind == KindText && (c.Text != "Comet" || c.Font != "500 13px") {
			t.Errorf("Unexpected label %+v", c)
		}
	}
}

func TestRenderHighlight(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "X"}, Connections: []model.Connection{{"Astronomy", "X"}}},
		{Name: "B", Nodes: []string{"Astronomy", "Y"}, Connections: []model.Connection{{"Astronomy", "Y"}, {"Y", "Ghost"}}},
	})

	plain := Render(s, View{Camera: identity})
	lit := Render(s, View{Camera: identity, Highlight: "B"})

	extra := lit[len(plain):]
	// One highlighted edge (Ghost skipped), two nodes each with a label
	if len(extra) != 5 {
		t.Fatalf("Expected 5 highlight commands, got %d: %+v", len(extra), extra)
	}

	if extra[0].Kind != KindLine || extra[0].LineWidth != 2.5 || *extra[0].Stroke != highlightEdge {
		t.Errorf("Unexpected highlight edge %+v", extra[0])
	}

	anchor := extra[1]
	if anchor.Kind != KindCircle || anchor.Radius != 30+2*2+4 {
		t.Errorf("Highlighted anchor = %+v, want circle radius 38", anchor)
	}
	if extra[2].Font != "bold 14px" {
		t.Errorf("Anchor highlight font = %q", extra[2].Font)
	}

	rect := extra[3]
	if rect.Kind != KindRoundRect || rect.Width != 88 || rect.Height != 48 {
		t.Errorf("Highlighted rect = %+v, want 88x48", rect)
	}
	if *rect.Fill != highlightFill || *rect.Stroke != highlightStroke {
		t.Errorf("Highlighted rect colours = %v / %v", rect.Fill, rect.Stroke)
	}
}

func TestRenderUnknownHighlightIgnored(t *testing.T) {
	s := buildScene(t, model.Dataset{{Name: "A", Nodes: []string{"Astronomy"}}})

	plain := Render(s, View{Camera: identity})
	unknown := Render(s, View{Camera: identity, Highlight: "Nobody"})
	if len(plain) != len(unknown) {
		t.Errorf("Unknown contributor changed output: %d vs %d commands", len(plain), len(unknown))
	}
}

func TestWriteSVG(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "Moons & rings"}, Connections: []model.Connection{{"Astronomy", "Moons & rings"}}},
	})

	var buf bytes.Buffer
	if err := WriteSVG(&buf, Render(s, View{Camera: identity, Width: 800, Height: 600, Highlight: "A"}), 800, 600); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<svg", "<circle", "<rect", "<line", "Moons &amp; rings", "translate(0,0) scale(1)", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	s := buildScene(t, model.Dataset{
		{Name: "A", Nodes: []string{"Astronomy", "Stars"}, Connections: []model.Connection{{"Astronomy", "Stars"}}},
	})

	var buf bytes.Buffer
	cmds := Render(s, View{Camera: Camera{PanX: 10, PanY: -5, Scale: 0.5}, Width: 320, Height: 200})
	if err := WritePNG(&buf, cmds, 320, 200); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("PNG size = %v, want 320x200", b)
	}
}

func TestParseFont(t *testing.T) {
	tests := []struct {
		in   string
		want FontSpec
	}{
		{"500 13px", FontSpec{Weight: "500", Size: 13}},
		{"bold 14px", FontSpec{Weight: "bold", Size: 14}},
		{"12px", FontSpec{Weight: "normal", Size: 12}},
	}

	for _, tt := range tests {
		got, err := ParseFont(tt.in)
		if err != nil {
			t.Errorf("ParseFont(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFont(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFont("bold abcpx"); err == nil {
		t.Error("Expected error for bad size")
	}
}

func TestColorText(t *testing.T) {
	c := RGBA(202, 138, 4, 0.8)
	text, _ := c.MarshalText()

	var back Color
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%s): %v", text, err)
	}
	if back != c {
		t.Errorf("Round trip = %+v, want %+v", back, c)
	}
	if c.NRGBA().A != 204 {
		t.Errorf("Alpha byte = %d, want 204", c.NRGBA().A)
	}
}
