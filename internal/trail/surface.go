package trail

import "image/color"

// BlendMode selects how strokes combine with what is already drawn.
type BlendMode int

const (
	// BlendNormal paints over the existing pixels.
	BlendNormal BlendMode = iota
	// BlendLighter adds colour channels, saturating at white.
	BlendLighter
)

func (m BlendMode) String() string {
	if m == BlendLighter {
		return "lighter"
	}
	return "source-over"
}

// Surface is the persistent drawing target a Trail renders into. Drawing
// accumulates across frames; only Resize clears it.
type Surface interface {
	// Resize sets the viewport size and discards the current raster.
	Resize(width, height int)
	// Size is the viewport size in pixels.
	Size() (width, height int)
	SetBlend(mode BlendMode)
	// Fade lays a black rectangle of the given opacity over the whole surface.
	Fade(alpha float64)
	// StrokeQuad strokes a quadratic curve from "from" to "to" with control
	// point ctrl.
	StrokeQuad(from, ctrl, to Vec, width float64, c color.RGBA, alpha float64)
}
