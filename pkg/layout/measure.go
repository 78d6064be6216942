package layout

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelFontSize is the pixel size labels are measured at
const LabelFontSize = 12.0

// TextMeasurer reports the rendered width of a label
type TextMeasurer interface {
	MeasureText(s string) float64
}

// MeasureFunc adapts a function to TextMeasurer
type MeasureFunc func(s string) float64

func (f MeasureFunc) MeasureText(s string) float64 { return f(s) }

// FontMeasurer measures text with an OpenType face
type FontMeasurer struct {
	face font.Face
}

// NewFontMeasurer returns a measurer for the embedded Go Regular font at size px
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	face, err := NewFace(size)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face}, nil
}

// NewFace opens the embedded Go Regular font at size px (72 DPI)
func NewFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

func (m *FontMeasurer) MeasureText(s string) float64 {
	adv := font.MeasureString(m.face, s)
	return float64(adv) / 64
}
