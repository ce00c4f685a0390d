// Package trail simulates the glowing pointer trail drawn behind the design
// and development views.
//
// A Trail is advanced one frame at a time with Step, which draws onto a
// Surface. Pointer and touch input only move the target the trail chases;
// the trail head follows it with a clamped per-frame velocity, so fast
// pointer motion produces an elastic lag instead of a long straight line.
package trail

import (
	"image/color"
	"math"
)

// Vec is a 2D position or displacement in viewport pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Mid(o Vec) Vec { return Vec{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }

// Point is one sample of the trail.
type Point struct {
	Pos   Vec
	Vel   Vec
	Size  float64
	Color color.RGBA
}

func (p *Point) drift() {
	p.Pos = p.Pos.Add(p.Vel)
}

// Config holds the trail constants.
type Config struct {
	// SpeedX and SpeedY scale the raw pointer displacement per frame.
	SpeedX, SpeedY float64
	// MaxLength caps the number of points; the oldest is evicted first.
	MaxLength int
	// SeedPoints zero-velocity points are placed at the origin on creation.
	SeedPoints int
	SeedSize   float64
	SeedColor  color.RGBA

	SizeStep      float64
	SizeAmplitude float64
	SizeBase      float64

	// Per-frame phase increments for the red, green and blue channels.
	RedStep, GreenStep, BlueStep float64
	// Starting phases for the three channels.
	RedPhase, GreenPhase, BluePhase float64

	// FadeAlpha is the opacity of the black wash laid over each frame.
	FadeAlpha float64
	// Passes is how many times the curves are drawn per frame.
	Passes int
}

// DefaultConfig returns the constants the site ships with.
func DefaultConfig() Config {
	return Config{
		SpeedX:        0.15,
		SpeedY:        0.15,
		MaxLength:     120,
		SeedPoints:    10,
		SeedSize:      1,
		SeedColor:     color.RGBA{R: 0, G: 255, B: 255, A: 255},
		SizeStep:      0.125,
		SizeAmplitude: 10,
		SizeBase:      1,
		RedStep:       0.02,
		GreenStep:     0.015,
		BlueStep:      0.025,
		RedPhase:      0,
		GreenPhase:    255,
		BluePhase:     255,
		FadeAlpha:     0.05,
		Passes:        3,
	}
}

// Trail is the simulation state for one mounted canvas. It is not safe for
// concurrent use; an Animator serializes access.
type Trail struct {
	cfg Config

	target Vec
	last   Vec
	spread float64

	points []Point

	sizePhase  float64
	redPhase   float64
	greenPhase float64
	bluePhase  float64
	frame      uint64
}

// New creates a trail seeded at origin.
func New(cfg Config, origin Vec) *Trail {
	t := &Trail{
		cfg:        cfg,
		target:     origin,
		last:       origin,
		spread:     1,
		points:     make([]Point, 0, cfg.MaxLength+1),
		redPhase:   cfg.RedPhase,
		greenPhase: cfg.GreenPhase,
		bluePhase:  cfg.BluePhase,
	}
	for i := 0; i < cfg.SeedPoints; i++ {
		t.points = append(t.points, Point{Pos: origin, Size: cfg.SeedSize, Color: cfg.SeedColor})
	}
	return t
}

// PointerMove records a new pointer position.
func (t *Trail) PointerMove(p Vec) {
	t.target = p
	t.spread = 1
}

// TouchStart snaps the whole trail to p and freezes the head until the next
// move, so a new touch never draws a streak from the previous one. It reports
// whether the host should suppress default touch handling, which is always
// the case unless the touch landed on a hyperlink.
func (t *Trail) TouchStart(p Vec, onLink bool) bool {
	t.spread = 0
	t.target = p
	t.snap(p)
	return !onLink
}

// TouchMove records a touch drag position.
func (t *Trail) TouchMove(p Vec) {
	t.target = p
	t.spread = 1
}

// PointerEnter snaps the trail to where the pointer entered the viewport.
func (t *Trail) PointerEnter(p Vec) {
	t.target = p
	t.snap(p)
}

func (t *Trail) snap(p Vec) {
	for i := range t.points {
		t.points[i].Pos = p
	}
}

// Step advances the trail one frame and draws it onto s.
func (t *Trail) Step(s Surface) {
	dx := clamp((t.target.X-t.last.X)*t.cfg.SpeedX, t.spread)
	dy := clamp((t.target.Y-t.last.Y)*t.cfg.SpeedY, t.spread)
	t.last = t.target

	t.sizePhase += t.cfg.SizeStep
	t.redPhase += t.cfg.RedStep
	t.greenPhase += t.cfg.GreenStep
	t.bluePhase += t.cfg.BlueStep

	t.points = append(t.points, Point{
		Pos:   t.last,
		Vel:   Vec{dx, dy},
		Size:  math.Abs(math.Sin(t.sizePhase)*t.cfg.SizeAmplitude) + t.cfg.SizeBase,
		Color: color.RGBA{R: channel(t.redPhase), G: channel(t.greenPhase), B: channel(t.bluePhase), A: 255},
	})
	if len(t.points) > t.cfg.MaxLength {
		copy(t.points, t.points[1:])
		t.points = t.points[:len(t.points)-1]
	}

	s.SetBlend(BlendNormal)
	s.Fade(t.cfg.FadeAlpha)

	s.SetBlend(BlendLighter)
	for i := 0; i < t.cfg.Passes; i++ {
		t.drawCurves(s)
	}
	t.frame++
}

// drawCurves walks from the newest point to the oldest, drawing a quadratic
// segment through each interior point and drifting every point it passes.
func (t *Trail) drawCurves(s Surface) {
	total := len(t.points)
	if total == 0 {
		return
	}
	for i := total - 1; i > 1; i-- {
		p0, p1, p2 := &t.points[i], &t.points[i-1], &t.points[i-2]
		s.StrokeQuad(p1.Pos.Mid(p0.Pos), p1.Pos, p1.Pos.Mid(p2.Pos),
			p0.Size, p0.Color, float64(i)/float64(total))
		p0.drift()
	}
	t.points[0].drift()
	t.points[total-1].drift()
}

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Len is the number of points in the trail.
func (t *Trail) Len() int { return len(t.points) }

// Frame is the number of completed Step calls.
func (t *Trail) Frame() uint64 { return t.frame }

// Target is the last observed pointer position.
func (t *Trail) Target() Vec { return t.target }

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// channel maps a phase onto 0..255 along a sine wave.
func channel(phase float64) uint8 {
	v := math.Floor(math.Sin(phase)*128 + 128)
	return uint8(math.Max(0, math.Min(255, v)))
}
