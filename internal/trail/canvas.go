package trail

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
)

// Canvas is a raster Surface. It can render at a fraction of the viewport
// size; coordinates passed to it stay in viewport pixels.
//
// gg only paints source-over, so strokes made in lighter mode go to a
// separate layer that is added into the base image when the mode changes
// back or the image is read.
type Canvas struct {
	width, height int
	scale         float64

	base  *image.RGBA
	dc    *gg.Context
	layer *image.RGBA
	ldc   *gg.Context

	blend   BlendMode
	pending bool
}

// NewCanvas creates a canvas for a width×height viewport rendered at scale.
func NewCanvas(width, height int, scale float64) *Canvas {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	c := &Canvas{scale: scale}
	c.Resize(width, height)
	return c
}

// Resize implements Surface.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
	pw := max(int(math.Ceil(float64(c.width)*c.scale)), 1)
	ph := max(int(math.Ceil(float64(c.height)*c.scale)), 1)

	c.base = image.NewRGBA(image.Rect(0, 0, pw, ph))
	c.dc = gg.NewContextForRGBA(c.base)
	c.dc.Scale(c.scale, c.scale)

	c.layer = image.NewRGBA(image.Rect(0, 0, pw, ph))
	c.ldc = gg.NewContextForRGBA(c.layer)
	c.ldc.Scale(c.scale, c.scale)

	c.pending = false
}

// Size implements Surface.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// SetBlend implements Surface.
func (c *Canvas) SetBlend(mode BlendMode) {
	if mode != BlendLighter {
		c.flush()
	}
	c.blend = mode
}

// Fade implements Surface.
func (c *Canvas) Fade(alpha float64) {
	c.flush()
	c.dc.Push()
	c.dc.Identity()
	b := c.base.Bounds()
	c.dc.DrawRectangle(0, 0, float64(b.Dx()), float64(b.Dy()))
	c.dc.SetRGBA(0, 0, 0, alpha)
	c.dc.Fill()
	c.dc.Pop()
}

// StrokeQuad implements Surface.
func (c *Canvas) StrokeQuad(from, ctrl, to Vec, width float64, col color.RGBA, alpha float64) {
	dc := c.dc
	if c.blend == BlendLighter {
		dc = c.ldc
		c.pending = true
	}
	dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, alpha)
	// gg scales path coordinates but not line width.
	dc.SetLineWidth(width * c.scale)
	dc.MoveTo(from.X, from.Y)
	dc.QuadraticTo(ctrl.X, ctrl.Y, to.X, to.Y)
	dc.Stroke()
}

// flush adds the lighter layer into the base image and clears the layer.
func (c *Canvas) flush() {
	if !c.pending {
		return
	}
	dst, src := c.base.Pix, c.layer.Pix
	for i := range src {
		if src[i] == 0 {
			continue
		}
		dst[i] = uint8(min(int(dst[i])+int(src[i]), 255))
		src[i] = 0
	}
	c.pending = false
}

// Image returns the current raster. The returned image is owned by the
// canvas and changes on the next frame.
func (c *Canvas) Image() *image.RGBA {
	c.flush()
	return c.base
}

// EncodePNG writes the current raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	c.flush()
	return c.dc.EncodePNG(w)
}
