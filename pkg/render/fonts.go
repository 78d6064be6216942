package render

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSpec is a parsed CSS font shorthand limited to weight and pixel size
type FontSpec struct {
	Weight string
	Size   float64
}

// ParseFont reads strings such as "500 13px" or "bold 14px"
func ParseFont(s string) (FontSpec, error) {
	spec := FontSpec{Weight: "normal", Size: 12}
	for _, field := range strings.Fields(s) {
		if px, ok := strings.CutSuffix(field, "px"); ok {
			size, err := strconv.ParseFloat(px, 64)
			if err != nil {
				return spec, fmt.Errorf("invalid font size %q: %w", field, err)
			}
			spec.Size = size
			continue
		}
		spec.Weight = field
	}
	return spec, nil
}

// parsedFonts holds the embedded Go fonts by weight. Parsed fonts are safe
// to share; faces are not, so each render opens its own.
var parsedFonts = struct {
	sync.Mutex
	byTTF map[string]*opentype.Font
}{byTTF: make(map[string]*opentype.Font)}

func parsedFont(weight string) (*opentype.Font, error) {
	name, ttf := "regular", goregular.TTF
	switch weight {
	case "bold", "700", "800", "900":
		name, ttf = "bold", gobold.TTF
	case "500", "600":
		name, ttf = "medium", gomedium.TTF
	}

	parsedFonts.Lock()
	defer parsedFonts.Unlock()

	if fnt, ok := parsedFonts.byTTF[name]; ok {
		return fnt, nil
	}
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse %s font: %w", name, err)
	}
	parsedFonts.byTTF[name] = fnt
	return fnt, nil
}

// faceSet opens faces lazily for a single render
type faceSet map[FontSpec]font.Face

func (fs faceSet) get(spec FontSpec) (font.Face, error) {
	if face, ok := fs[spec]; ok {
		return face, nil
	}

	fnt, err := parsedFont(spec.Weight)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	fs[spec] = face
	return face, nil
}

func (fs faceSet) Close() {
	for _, face := range fs {
		_ = face.Close()
	}
}
