// Package interact implements pan, zoom, hover and highlight handling as a
// pure transition function over an interaction state.
package interact

import (
	"github.com/ritzau/mindmap/pkg/geometry"
	"github.com/ritzau/mindmap/pkg/render"
	"github.com/ritzau/mindmap/pkg/scene"
)

// Mode is the pointer mode
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModePanning Mode = "panning"
)

// Cursor is the pointer cursor the surface should show
type Cursor string

const (
	CursorGrab     Cursor = "grab"
	CursorGrabbing Cursor = "grabbing"
	CursorPointer  Cursor = "pointer"
)

// EventType names an input event
type EventType string

const (
	EventPointerDown  EventType = "pointerdown"
	EventPointerUp    EventType = "pointerup"
	EventPointerLeave EventType = "pointerleave"
	EventPointerMove  EventType = "pointermove"
	EventWheel        EventType = "wheel"
	EventResize       EventType = "resize"
	EventSelect       EventType = "select"    // Name selector changed
	EventHighlight    EventType = "highlight" // Checkbox toggled
)

// Event is one input event in screen coordinates
type Event struct {
	Type    EventType `json:"type"`
	X       float64   `json:"x,omitempty"`
	Y       float64   `json:"y,omitempty"`
	DeltaY  float64   `json:"deltaY,omitempty"`
	Width   float64   `json:"width,omitempty"`
	Height  float64   `json:"height,omitempty"`
	Name    string    `json:"name,omitempty"`
	Enabled bool      `json:"enabled,omitempty"`
}

// State is everything the controller remembers between events
type State struct {
	Camera Camera         `json:"camera"`
	Mode   Mode           `json:"mode"`
	Start  geometry.Point `json:"start"` // Pointer minus pan when panning began
	Width  float64        `json:"width"`
	Height float64        `json:"height"`

	Selected         string `json:"selected"`         // Name selector value
	HighlightEnabled bool   `json:"highlightEnabled"` // Checkbox
	Highlight        string `json:"highlight"`        // Active highlight, empty for none

	Expanded bool           `json:"expanded"` // Connected-to section open
	Tooltip  *scene.Tooltip `json:"tooltip,omitempty"`
	Cursor   Cursor         `json:"cursor"`
}

// Result reports what an event changed
type Result struct {
	Redraw  bool           `json:"redraw"`
	Tooltip *scene.Tooltip `json:"tooltip"`
	Cursor  Cursor         `json:"cursor"`
}

// NewState returns an idle state for a surface of the given size
func NewState(width, height float64) State {
	return State{
		Camera: DefaultCamera(),
		Mode:   ModeIdle,
		Width:  width,
		Height: height,
		Cursor: CursorGrab,
	}
}

// View is the renderer input for the current state
func (st State) View() render.View {
	return render.View{
		Camera:    st.Camera,
		Width:     st.Width,
		Height:    st.Height,
		Highlight: st.Highlight,
	}
}

// Apply handles one event. It never mutates s and has no side effects.
func Apply(st State, ev Event, s *scene.Scene) (State, Result) {
	redraw := false
	pointer := geometry.Point{X: ev.X, Y: ev.Y}

	switch ev.Type {
	case EventPointerDown:
		st.Mode = ModePanning
		st.Start = pointer.Sub(geometry.Point{X: st.Camera.PanX, Y: st.Camera.PanY})
		st.Cursor = CursorGrabbing
		st.Expanded = true
		st.Tooltip = withExpanded(st.Tooltip, true)

	case EventPointerUp, EventPointerLeave:
		st.Expanded = false
		st.Tooltip = withExpanded(st.Tooltip, false)
		if st.Mode == ModePanning {
			st.Mode = ModeIdle
			st.Cursor = CursorGrab
		}

	case EventPointerMove:
		if st.Mode == ModePanning {
			st.Camera.PanX = pointer.X - st.Start.X
			st.Camera.PanY = pointer.Y - st.Start.Y
			redraw = true
			break
		}
		st.Tooltip, st.Cursor = hover(st, pointer, s)

	case EventWheel:
		st.Camera = Zoom(st.Camera, pointer, ev.DeltaY)
		redraw = true

	case EventResize:
		st.Width = ev.Width
		st.Height = ev.Height
		redraw = true

	case EventSelect:
		// Changing the name always drops the old highlight; it only comes
		// back if the checkbox is on and the name is known
		st.Selected = ev.Name
		st.Highlight = activeHighlight(st, s)
		redraw = true

	case EventHighlight:
		st.HighlightEnabled = ev.Enabled
		st.Highlight = activeHighlight(st, s)
		redraw = true
	}

	return st, Result{Redraw: redraw, Tooltip: st.Tooltip, Cursor: st.Cursor}
}

func hover(st State, pointer geometry.Point, s *scene.Scene) (*scene.Tooltip, Cursor) {
	if s == nil {
		return nil, CursorGrab
	}

	hit, ok := s.HitTest(ScreenToWorld(st.Camera, pointer))
	if !ok {
		return nil, CursorGrab
	}

	tip := s.Tooltip(hit, pointer, st.Expanded)
	return &tip, CursorPointer
}

func activeHighlight(st State, s *scene.Scene) string {
	if !st.HighlightEnabled || st.Selected == "" || s == nil {
		return ""
	}
	if _, ok := s.Contributor(st.Selected); !ok {
		return ""
	}
	return st.Selected
}

func withExpanded(tip *scene.Tooltip, expanded bool) *scene.Tooltip {
	if tip == nil || tip.Kind != scene.HitNode {
		return tip
	}
	cp := *tip
	cp.Expanded = expanded
	return &cp
}
