package trail

import "math"

// Lissajous returns n pointer positions tracing a 3:2 Lissajous figure that
// fills most of a width×height viewport.
func Lissajous(width, height, n int) []Vec {
	cx, cy := float64(width)/2, float64(height)/2
	ax, ay := cx*0.8, cy*0.8
	path := make([]Vec, n)
	for i := range path {
		t := 2 * math.Pi * float64(i) / float64(max(n, 1))
		path[i] = Vec{cx + ax*math.Sin(3*t+math.Pi/2), cy + ay*math.Sin(2*t)}
	}
	return path
}

// Replay drives a fresh trail along path, one pointer move and one frame per
// position, and returns it. The trail is seeded at the surface centre as a
// mounted animator would be. onStep, if set, runs after every frame.
func Replay(cfg Config, s Surface, path []Vec, onStep func(frame uint64)) *Trail {
	w, h := s.Size()
	t := New(cfg, Vec{float64(w) / 2, float64(h) / 2})
	for _, p := range path {
		t.PointerMove(p)
		t.Step(s)
		if onStep != nil {
			onStep(t.Frame())
		}
	}
	return t
}
