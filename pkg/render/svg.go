package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Background is painted by the file sinks where the browser shell uses its
// page colour
var Background = RGBA(17, 24, 39, 1)

// WriteSVG replays cmds as an SVG document of the given size
func WriteSVG(w io.Writer, cmds []Command, width, height int) error {
	canvas := svg.New(w)
	canvas.Start(width, height)

	canvas.Def()
	canvas.Filter("shadow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceAlpha", Result: "blur"}, 4, 4)
	canvas.FeOffset(svg.Filterspec{In: "blur", Result: "offsetBlur"}, 0, 3)
	canvas.FeMerge([]string{"offsetBlur", "SourceGraphic"})
	canvas.Fend()
	canvas.Filter("glow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "blur"}, 3, 3)
	canvas.FeMerge([]string{"blur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()

	groups := 0
	for _, cmd := range cmds {
		switch cmd.Kind {
		case KindClear:
			canvas.Rect(0, 0, width, height, "fill:"+Background.String())
		case KindTransform:
			canvas.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)", cmd.X, cmd.Y, cmd.Scale))
			groups++
		case KindLine:
			canvas.Line(px(cmd.X), px(cmd.Y), px(cmd.X2), px(cmd.Y2), svgStyle(cmd))
		case KindCircle:
			canvas.Circle(px(cmd.X), px(cmd.Y), px(cmd.Radius), svgStyle(cmd))
		case KindRoundRect:
			x := px(cmd.X - cmd.Width/2)
			y := px(cmd.Y - cmd.Height/2)
			r := px(cmd.Radius)
			canvas.Roundrect(x, y, px(cmd.Width), px(cmd.Height), r, r, svgStyle(cmd))
		case KindText:
			canvas.Text(px(cmd.X), px(cmd.Y), cmd.Text, svgTextStyle(cmd))
		default:
			return fmt.Errorf("unknown draw command %q", cmd.Kind)
		}
	}

	for ; groups > 0; groups-- {
		canvas.Gend()
	}
	canvas.End()
	return nil
}

func px(v float64) int {
	return int(math.Round(v))
}

func svgStyle(cmd Command) string {
	var parts []string
	if cmd.Fill != nil {
		parts = append(parts, "fill:"+cmd.Fill.String())
	} else {
		parts = append(parts, "fill:none")
	}
	if cmd.Stroke != nil {
		parts = append(parts, "stroke:"+cmd.Stroke.String(), fmt.Sprintf("stroke-width:%g", cmd.LineWidth))
	}
	if cmd.Shadow != nil {
		if cmd.Shadow.OffsetY != 0 {
			parts = append(parts, "filter:url(#shadow)")
		} else {
			parts = append(parts, "filter:url(#glow)")
		}
	}
	return strings.Join(parts, ";")
}

func svgTextStyle(cmd Command) string {
	spec, err := ParseFont(cmd.Font)
	if err != nil {
		spec = FontSpec{Weight: "normal", Size: 12}
	}

	fill := White
	if cmd.Fill != nil {
		fill = *cmd.Fill
	}

	return fmt.Sprintf("fill:%s;font-family:Inter,sans-serif;font-weight:%s;font-size:%gpx;text-anchor:middle;dominant-baseline:middle",
		fill, spec.Weight, spec.Size)
}
