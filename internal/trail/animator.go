package trail

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventKind identifies an input signal from the host page.
type EventKind string

const (
	EventPointerMove  EventKind = "pointermove"
	EventTouchStart   EventKind = "touchstart"
	EventTouchMove    EventKind = "touchmove"
	EventPointerEnter EventKind = "pointerenter"
	EventResize       EventKind = "resize"
)

// Event is one input signal. X and Y are viewport coordinates; Width and
// Height are only used by resize.
type Event struct {
	Kind   EventKind `json:"type"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
	OnLink bool      `json:"on_link,omitempty"`
}

// Apply feeds a pointer or touch event into t. Resize is a surface concern and
// is ignored here. The result reports whether default handling should be
// suppressed.
func (t *Trail) Apply(ev Event) bool {
	p := Vec{ev.X, ev.Y}
	switch ev.Kind {
	case EventPointerMove:
		t.PointerMove(p)
	case EventTouchStart:
		return t.TouchStart(p, ev.OnLink)
	case EventTouchMove:
		t.TouchMove(p)
	case EventPointerEnter:
		t.PointerEnter(p)
	}
	return false
}

// FrameFunc receives each finished frame. Returning an error stops the
// animator.
type FrameFunc func(frame uint64) error

// Animator runs one Trail against one Surface. All trail and surface access
// happens on the goroutine started by Start; input arrives through Send.
type Animator struct {
	trail   *Trail
	surface Surface
	fps     int
	onFrame FrameFunc
	log     zerolog.Logger

	mu      sync.Mutex
	queue   []Event
	wake    chan struct{}
	drained chan struct{}
	stopped chan struct{}
}

// maxQueuedEvents bounds the input queue. Moves are merged, so only a burst
// of discrete events between two frames can reach it.
const maxQueuedEvents = 64

// coalescable reports whether ev may replace a queued event of the same
// group. Consecutive moves only leave their last position behind, and only
// the last of consecutive resizes matters.
func coalescable(queued, ev Event) bool {
	switch ev.Kind {
	case EventPointerMove, EventTouchMove:
		return queued.Kind == EventPointerMove || queued.Kind == EventTouchMove
	case EventResize:
		return queued.Kind == EventResize
	}
	return false
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithFPS sets the frame rate. Values below 1 are ignored.
func WithFPS(fps int) AnimatorOption {
	return func(a *Animator) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// WithFrameFunc installs the per-frame callback.
func WithFrameFunc(fn FrameFunc) AnimatorOption {
	return func(a *Animator) { a.onFrame = fn }
}

// WithLogger sets the animator's logger.
func WithLogger(l zerolog.Logger) AnimatorOption {
	return func(a *Animator) { a.log = l }
}

// NewAnimator mounts a trail on surface, seeded at the centre of the surface.
func NewAnimator(cfg Config, surface Surface, opts ...AnimatorOption) *Animator {
	w, h := surface.Size()
	a := &Animator{
		trail:   New(cfg, Vec{float64(w) / 2, float64(h) / 2}),
		surface: surface,
		fps:     60,
		log:     zerolog.Nop(),
		wake:    make(chan struct{}, 1),
		drained: make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Send queues an input event. A move directly behind another move replaces
// it, as does a resize behind a resize. Other events are never dropped: when
// the queue is full Send waits for the loop to drain it. It reports false
// once the animator has stopped.
func (a *Animator) Send(ev Event) bool {
	for {
		a.mu.Lock()
		select {
		case <-a.stopped:
			a.mu.Unlock()
			return false
		default:
		}
		if n := len(a.queue); n > 0 && coalescable(a.queue[n-1], ev) {
			a.queue[n-1] = ev
			a.mu.Unlock()
			return true
		}
		if len(a.queue) < maxQueuedEvents {
			a.queue = append(a.queue, ev)
			a.mu.Unlock()
			signal(a.wake)
			return true
		}
		a.mu.Unlock()

		select {
		case <-a.drained:
		case <-a.stopped:
			return false
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Handle controls a running animator.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Stop cancels the frame loop and waits for it to exit. It is safe to call
// more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the frame loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err waits for the loop to exit and returns the frame callback error that
// ended it, if any.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Start runs the frame loop until ctx is cancelled, Stop is called or the
// frame callback fails.
func (a *Animator) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()
		defer close(a.stopped)
		h.err = a.run(ctx)
	}()
	return h
}

func (a *Animator) run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	a.log.Debug().Int("fps", a.fps).Msg("Trail animator started")
	defer func() {
		a.log.Debug().Uint64("frames", a.trail.Frame()).Msg("Trail animator stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.wake:
			a.drain(ctx)
		case <-ticker.C:
			// Input that raced the tick still belongs to this frame.
			a.drain(ctx)
			if ctx.Err() != nil {
				return nil
			}
			a.trail.Step(a.surface)
			if a.onFrame != nil {
				if err := a.onFrame(a.trail.Frame()); err != nil {
					return err
				}
			}
		}
	}
}

func (a *Animator) drain(ctx context.Context) {
	a.mu.Lock()
	events := a.queue
	a.queue = nil
	a.mu.Unlock()
	signal(a.drained)

	for _, ev := range events {
		if ctx.Err() != nil {
			return
		}
		a.handle(ev)
	}
}

func (a *Animator) handle(ev Event) {
	if ev.Kind == EventResize {
		if ev.Width > 0 && ev.Height > 0 {
			a.surface.Resize(ev.Width, ev.Height)
		}
		return
	}
	a.trail.Apply(ev)
}
