// Package placeholder draws the stand-in graphic served for images that are
// missing from disk.
package placeholder

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultLabel  = "Image Not Found"
)

var (
	background = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	foreground = color.RGBA{R: 0x96, G: 0x96, B: 0x96, A: 0xff}
)

// Render draws a w×h grey PNG with label centred on it.
func Render(w, h int, label string) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("placeholder size %dx%d must be positive", w, h)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(h) / 12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(foreground)
	dc.SetFontFace(face)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
