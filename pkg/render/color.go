package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// Color is a CSS-style colour with 8-bit channels and a fractional alpha
type Color struct {
	R uint8
	G uint8
	B uint8
	A float64
}

// RGBA builds a Color
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// String formats c as rgba(r, g, b, a)
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// NRGBA converts c for image drawing
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// MarshalText encodes c in its CSS form
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the CSS rgba() form written by MarshalText
func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(string(text), "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
		return fmt.Errorf("invalid colour %q: %w", text, err)
	}
	*c = Color{R: uint8(r), G: uint8(g), B: uint8(b), A: a}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

var (
	White = RGBA(255, 255, 255, 1)

	nodeFill   = RGBA(31, 41, 55, 0.85)
	nodeGlow   = RGBA(99, 102, 241, 0.8)
	nodeShadow = RGBA(0, 0, 0, 0.35)

	highlightEdge   = RGBA(245, 158, 11, 0.7)
	highlightShadow = RGBA(245, 158, 11, 0.3)
	highlightFill   = RGBA(245, 158, 11, 0.7)
	highlightStroke = RGBA(202, 138, 4, 0.8)
)

// EdgeColor is the colour of an edge listed by count contributors
func EdgeColor(count int) Color {
	return RGBA(96, 165, 250, EdgeOpacity(count))
}

// EdgeOpacity is min(0.3 + 0.15*count, 1)
func EdgeOpacity(count int) float64 {
	return math.Min(0.3+0.15*float64(count), 1)
}

// EdgeWidth is 1 + 0.5*count
func EdgeWidth(count int) float64 {
	return 1 + 0.5*float64(count)
}
