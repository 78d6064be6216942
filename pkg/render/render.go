// Package render turns a scene and a camera into an ordered list of draw
// commands. Sinks replay the list onto SVG, PNG or a browser canvas.
package render

import (
	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/layout"
	"github.com/ritzau/mindmap/pkg/model"
	"github.com/ritzau/mindmap/pkg/scene"
)

// Kind is a draw command type
type Kind string

const (
	KindClear     Kind = "clear"
	KindTransform Kind = "transform"
	KindLine      Kind = "line"
	KindCircle    Kind = "circle"
	KindRoundRect Kind = "roundrect"
	KindText      Kind = "text"
)

const (
	cornerRadius     = 10.0
	highlightPadding = 4.0
	highlightWidth   = 2.5
	borderWidth      = 2.0
)

// Shadow is a canvas-style drop shadow
type Shadow struct {
	Color   Color   `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetY float64 `json:"offsetY,omitempty"`
}

// Command is one drawing primitive. Coordinates after a transform command
// are in world space. Shapes are filled before they are stroked.
type Command struct {
	Kind Kind `json:"kind"`

	X  float64 `json:"x,omitempty"` // Line start, shape centre or translation
	Y  float64 `json:"y,omitempty"`
	X2 float64 `json:"x2,omitempty"` // Line end
	Y2 float64 `json:"y2,omitempty"`

	Radius float64 `json:"radius,omitempty"` // Circle radius or rect corner radius
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	Fill      *Color  `json:"fill,omitempty"`
	Stroke    *Color  `json:"stroke,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	Shadow    *Shadow `json:"shadow,omitempty"`

	// StrokeShadow replaces Shadow while stroking when set
	StrokeShadow *Shadow `json:"strokeShadow,omitempty"`

	Text string `json:"text,omitempty"`
	Font string `json:"font,omitempty"` // CSS font shorthand, e.g. "500 13px"
}

// Camera is the screen transform: screen = world*Scale + Pan
type Camera struct {
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Scale float64 `json:"scale"`
}

// View holds what the renderer needs besides the scene
type View struct {
	Camera Camera
	Width  float64
	Height float64

	// Highlight names the contributor whose subgraph is emphasised; empty
	// or unknown disables the overlay.
	Highlight string
}

// Render produces the command list for one frame. It has no side effects.
func Render(s *scene.Scene, v View) []Command {
	scale := v.Camera.Scale
	if scale == 0 {
		scale = 1
	}

	cmds := []Command{
		{Kind: KindClear, Width: v.Width, Height: v.Height},
		{Kind: KindTransform, X: v.Camera.PanX, Y: v.Camera.PanY, Scale: scale},
	}

	for _, key := range s.Aggregate.Edges.Keys() {
		from, okA := s.Position(key.A)
		to, okB := s.Position(key.B)
		if !okA || !okB {
			continue
		}
		count := len(s.Aggregate.Edges.Contributors(key))
		cmds = append(cmds, line(from, to, EdgeColor(count), EdgeWidth(count), nil))
	}

	for _, label := range s.Aggregate.Nodes.Labels() {
		pos, okP := s.Position(label)
		shape, okS := s.Shape(label)
		if !okP || !okS {
			continue
		}
		cmds = append(cmds, drawNode(label, pos, shape)...)
	}

	if v.Highlight != "" {
		if person, ok := s.Contributor(v.Highlight); ok {
			cmds = append(cmds, drawHighlight(s, person.Nodes, person.Connections)...)
		}
	}

	return cmds
}

func drawNode(label string, pos geometry.Point, shape layout.Shape) []Command {
	cmd := shapeCommand(pos, shape, 0)
	cmd.Fill = ptr(nodeFill)
	cmd.Shadow = &Shadow{Color: nodeShadow, Blur: 8, OffsetY: 3}
	cmd.Stroke = ptr(nodeGlow)
	cmd.LineWidth = borderWidth
	cmd.StrokeShadow = &Shadow{Color: nodeShadow, Blur: 2, OffsetY: 3}

	font := "500 13px"
	if shape.Kind == layout.ShapeCircle {
		font = "500 14px"
	}

	return []Command{cmd, text(label, pos, font)}
}

func drawHighlight(s *scene.Scene, nodes []string, connections []model.Connection) []Command {
	var cmds []Command
	glow := &Shadow{Color: highlightShadow, Blur: 6}

	for _, conn := range connections {
		from, okA := s.Position(conn[0])
		to, okB := s.Position(conn[1])
		if !okA || !okB {
			continue
		}
		cmds = append(cmds, line(from, to, highlightEdge, highlightWidth, glow))
	}

	for _, label := range nodes {
		pos, okP := s.Position(label)
		shape, okS := s.Shape(label)
		if !okP || !okS {
			continue
		}

		cmd := shapeCommand(pos, shape, highlightPadding)
		cmd.Fill = ptr(highlightFill)
		cmd.Stroke = ptr(highlightStroke)
		cmd.LineWidth = borderWidth
		cmd.Shadow = glow

		font := "bold 13px"
		if shape.Kind == layout.ShapeCircle {
			font = "bold 14px"
		}
		cmds = append(cmds, cmd, text(label, pos, font))
	}

	return cmds
}

// shapeCommand grows circles by pad in radius and rectangles by pad per side
func shapeCommand(pos geometry.Point, shape layout.Shape, pad float64) Command {
	if shape.Kind == layout.ShapeCircle {
		return Command{Kind: KindCircle, X: pos.X, Y: pos.Y, Radius: shape.Radius + pad}
	}
	return Command{
		Kind:   KindRoundRect,
		X:      pos.X,
		Y:      pos.Y,
		Width:  shape.Width + 2*pad,
		Height: shape.Height + 2*pad,
		Radius: cornerRadius,
	}
}

func line(from, to geometry.Point, c Color, width float64, shadow *Shadow) Command {
	return Command{
		Kind:      KindLine,
		X:         from.X,
		Y:         from.Y,
		X2:        to.X,
		Y2:        to.Y,
		Stroke:    ptr(c),
		LineWidth: width,
		Shadow:    shadow,
	}
}

func text(label string, pos geometry.Point, font string) Command {
	return Command{Kind: KindText, X: pos.X, Y: pos.Y, Text: label, Font: font, Fill: ptr(White)}
}

func ptr[T any](v T) *T {
	return &v
}
