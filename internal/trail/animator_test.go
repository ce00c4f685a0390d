package trail

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedSurface lets the test goroutine read call counts while the animator
// goroutine draws.
type lockedSurface struct {
	mu sync.Mutex
	*recordingSurface
}

func (l *lockedSurface) Resize(w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordingSurface.Resize(w, h)
}

func (l *lockedSurface) Size() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recordingSurface.Size()
}

func (l *lockedSurface) SetBlend(m BlendMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordingSurface.SetBlend(m)
}

func (l *lockedSurface) Fade(alpha float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordingSurface.Fade(alpha)
}

func (l *lockedSurface) StrokeQuad(from, ctrl, to Vec, width float64, c color.RGBA, alpha float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordingSurface.StrokeQuad(from, ctrl, to, width, c, alpha)
}

func (l *lockedSurface) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *lockedSurface) resizeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resizes
}

func TestAnimatorNoDrawingAfterStop(t *testing.T) {
	s := &lockedSurface{recordingSurface: newRecordingSurface(320, 240)}
	frames := make(chan uint64, 1024)
	a := NewAnimator(DefaultConfig(), s,
		WithFPS(120),
		WithFrameFunc(func(n uint64) error {
			frames <- n
			return nil
		}),
	)

	h := a.Start(context.Background())
	for i := 0; i < 3; i++ {
		select {
		case <-frames:
		case <-time.After(2 * time.Second):
			t.Fatal("animator produced no frames")
		}
	}

	h.Stop()
	after := s.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, s.callCount())

	h.Stop()
	assert.NoError(t, h.Err())
}

func TestAnimatorContextCancelStops(t *testing.T) {
	s := &lockedSurface{recordingSurface: newRecordingSurface(320, 240)}
	ctx, cancel := context.WithCancel(context.Background())
	h := NewAnimator(DefaultConfig(), s, WithFPS(60)).Start(ctx)

	cancel()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("animator did not stop on context cancel")
	}
}

func TestAnimatorFrameErrorEndsLoop(t *testing.T) {
	s := &lockedSurface{recordingSurface: newRecordingSurface(320, 240)}
	boom := errors.New("socket closed")
	h := NewAnimator(DefaultConfig(), s,
		WithFPS(120),
		WithFrameFunc(func(uint64) error { return boom }),
	).Start(context.Background())

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("animator kept running after frame error")
	}
	assert.ErrorIs(t, h.Err(), boom)
}

func TestAnimatorAppliesEventsOnLoop(t *testing.T) {
	s := &lockedSurface{recordingSurface: newRecordingSurface(320, 240)}
	targets := make(chan Vec, 1024)
	var a *Animator
	a = NewAnimator(DefaultConfig(), s,
		WithFPS(120),
		WithFrameFunc(func(uint64) error {
			// runs on the loop goroutine, so reading the trail is safe
			select {
			case targets <- a.trail.Target():
			default:
			}
			return nil
		}),
	)
	h := a.Start(context.Background())
	defer h.Stop()

	require.True(t, a.Send(Event{Kind: EventResize, Width: 1024, Height: 768}))
	require.True(t, a.Send(Event{Kind: EventPointerMove, X: 10, Y: 20}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-targets:
			if got == (Vec{10, 20}) {
				h.Stop()
				assert.Equal(t, 1, s.resizeCount())
				w, hgt := s.Size()
				assert.Equal(t, 1024, w)
				assert.Equal(t, 768, hgt)
				return
			}
		case <-deadline:
			t.Fatal("events never applied")
		}
	}
}

func TestSendMergesConsecutiveMoves(t *testing.T) {
	a := NewAnimator(DefaultConfig(), newRecordingSurface(320, 240))
	for i := 0; i < 500; i++ {
		require.True(t, a.Send(Event{Kind: EventPointerMove, X: float64(i), Y: 1}))
	}
	require.True(t, a.Send(Event{Kind: EventTouchStart, X: 50, Y: 60}))
	require.True(t, a.Send(Event{Kind: EventTouchMove, X: 70, Y: 80}))
	require.True(t, a.Send(Event{Kind: EventPointerMove, X: 90, Y: 100}))
	require.True(t, a.Send(Event{Kind: EventResize, Width: 10, Height: 10}))
	require.True(t, a.Send(Event{Kind: EventResize, Width: 640, Height: 480}))

	a.mu.Lock()
	queued := append([]Event(nil), a.queue...)
	a.mu.Unlock()
	require.Len(t, queued, 4)
	assert.Equal(t, Event{Kind: EventPointerMove, X: 499, Y: 1}, queued[0])
	assert.Equal(t, EventTouchStart, queued[1].Kind)
	assert.Equal(t, Event{Kind: EventPointerMove, X: 90, Y: 100}, queued[2])
	assert.Equal(t, 640, queued[3].Width)
}

func TestSendKeepsDiscreteEventsWhileFrameIsSlow(t *testing.T) {
	s := &lockedSurface{recordingSurface: newRecordingSurface(320, 240)}
	release := make(chan struct{})
	targets := make(chan Vec, 1024)
	var a *Animator
	a = NewAnimator(DefaultConfig(), s,
		WithFPS(120),
		WithFrameFunc(func(uint64) error {
			<-release
			select {
			case targets <- a.trail.Target():
			default:
			}
			return nil
		}),
	)
	h := a.Start(context.Background())
	defer h.Stop()

	// More touches than the queue holds, each followed by a move, while the
	// first frame is stuck on a slow client.
	const touches = 3 * maxQueuedEvents
	sent := make(chan bool, 1)
	go func() {
		ok := true
		for i := 0; i < touches; i++ {
			ok = a.Send(Event{Kind: EventTouchStart, X: float64(i), Y: float64(i)}) && ok
			ok = a.Send(Event{Kind: EventTouchMove, X: float64(i) + 0.5, Y: float64(i)}) && ok
		}
		sent <- ok
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case ok := <-sent:
		assert.True(t, ok, "no event was refused")
	case <-time.After(5 * time.Second):
		t.Fatal("sender never unblocked")
	}

	last := Vec{float64(touches-1) + 0.5, float64(touches - 1)}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-targets:
			if got == last {
				return
			}
		case <-deadline:
			t.Fatal("last touch never reached the trail")
		}
	}
}

func TestSendAfterStopReportsFalse(t *testing.T) {
	a := NewAnimator(DefaultConfig(), &lockedSurface{recordingSurface: newRecordingSurface(32, 32)}, WithFPS(60))
	h := a.Start(context.Background())
	h.Stop()
	assert.False(t, a.Send(Event{Kind: EventTouchStart, X: 1, Y: 1}))
}

func TestAnimatorSeedsAtSurfaceCentre(t *testing.T) {
	a := NewAnimator(DefaultConfig(), newRecordingSurface(800, 600))
	for _, p := range a.trail.Points() {
		assert.Equal(t, Vec{400, 300}, p.Pos)
	}
}

func TestCanvasRendersTrail(t *testing.T) {
	c := NewCanvas(200, 100, 0.5)
	w, h := c.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, 100, c.Image().Bounds().Dx())
	assert.Equal(t, 50, c.Image().Bounds().Dy())

	tr := New(DefaultConfig(), Vec{100, 50})
	for i := 0; i < 40; i++ {
		tr.PointerMove(Vec{float64(60 + i*2), float64(30 + i)})
		tr.Step(c)
	}

	lit := 0
	img := c.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i]|img.Pix[i+1]|img.Pix[i+2] != 0 {
			lit++
		}
	}
	assert.Greater(t, lit, 0, "trail left no visible pixels")

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestCanvasStrokeWidthIsInViewportPixels(t *testing.T) {
	for _, scale := range []float64{1, 0.5} {
		c := NewCanvas(400, 400, scale)
		c.StrokeQuad(Vec{0, 200}, Vec{200, 200}, Vec{400, 200}, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)

		img := c.Image()
		col := img.Bounds().Dx() / 2
		inked := 0
		for y := 0; y < img.Bounds().Dy(); y++ {
			if img.Pix[img.PixOffset(col, y)] > 127 {
				inked++
			}
		}
		assert.InDelta(t, 20, float64(inked)/scale, 2, "scale %v", scale)
	}
}

func TestCanvasLighterSaturates(t *testing.T) {
	c := NewCanvas(10, 10, 1)
	for i := 0; i < 2; i++ {
		c.SetBlend(BlendLighter)
		c.StrokeQuad(Vec{0, 5}, Vec{5, 5}, Vec{10, 5}, 4, color.RGBA{R: 200, A: 255}, 1)
		c.SetBlend(BlendNormal)
	}
	img := c.Image()
	off := img.PixOffset(5, 5)
	assert.Equal(t, uint8(255), img.Pix[off], "red channel saturates instead of wrapping")
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(20, 20, 1)
	c.StrokeQuad(Vec{0, 10}, Vec{10, 10}, Vec{20, 10}, 6, color.RGBA{G: 255, A: 255}, 1)
	require.NotZero(t, c.Image().Pix[c.Image().PixOffset(10, 10)+1])

	c.Resize(30, 30)
	for _, b := range c.Image().Pix {
		require.Zero(t, b)
	}
}
