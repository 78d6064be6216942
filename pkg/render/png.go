package render

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
)

// WritePNG rasterises cmds into a PNG of the given size. Shadows are drawn
// as an offset copy of the filled shape; blur is not reproduced.
func WritePNG(w io.Writer, cmds []Command, width, height int) error {
	dc := gg.NewContext(width, height)
	faces := make(faceSet)
	defer faces.Close()

	pushed := 0
	for _, cmd := range cmds {
		switch cmd.Kind {
		case KindClear:
			dc.SetColor(Background.NRGBA())
			dc.Clear()
		case KindTransform:
			dc.Push()
			pushed++
			dc.Translate(cmd.X, cmd.Y)
			dc.Scale(cmd.Scale, cmd.Scale)
		case KindLine:
			if cmd.Stroke == nil {
				continue
			}
			dc.DrawLine(cmd.X, cmd.Y, cmd.X2, cmd.Y2)
			dc.SetColor(cmd.Stroke.NRGBA())
			dc.SetLineWidth(cmd.LineWidth)
			dc.Stroke()
		case KindCircle, KindRoundRect:
			drawShape(dc, cmd)
		case KindText:
			if err := drawText(dc, faces, cmd); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown draw command %q", cmd.Kind)
		}
	}

	for ; pushed > 0; pushed-- {
		dc.Pop()
	}

	return dc.EncodePNG(w)
}

func drawShape(dc *gg.Context, cmd Command) {
	path := func(offsetY float64) {
		if cmd.Kind == KindCircle {
			dc.DrawCircle(cmd.X, cmd.Y+offsetY, cmd.Radius)
			return
		}
		dc.DrawRoundedRectangle(cmd.X-cmd.Width/2, cmd.Y-cmd.Height/2+offsetY, cmd.Width, cmd.Height, cmd.Radius)
	}

	if cmd.Shadow != nil && cmd.Fill != nil {
		path(cmd.Shadow.OffsetY)
		dc.SetColor(cmd.Shadow.Color.NRGBA())
		dc.Fill()
	}

	if cmd.Fill != nil {
		path(0)
		dc.SetColor(cmd.Fill.NRGBA())
		dc.Fill()
	}

	if cmd.Stroke != nil {
		path(0)
		dc.SetColor(cmd.Stroke.NRGBA())
		dc.SetLineWidth(cmd.LineWidth)
		dc.Stroke()
	}
}

func drawText(dc *gg.Context, faces faceSet, cmd Command) error {
	spec, err := ParseFont(cmd.Font)
	if err != nil {
		return err
	}
	face, err := faces.get(spec)
	if err != nil {
		return err
	}

	fill := White
	if cmd.Fill != nil {
		fill = *cmd.Fill
	}

	dc.SetFontFace(face)
	dc.SetColor(fill.NRGBA())
	dc.DrawStringAnchored(cmd.Text, cmd.X, cmd.Y, 0.5, 0.5)
	return nil
}
