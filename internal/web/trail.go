package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/umezakip/portfolio/internal/logger"
	"github.com/umezakip/portfolio/internal/trail"
)

const (
	maxEventSize = 512
	writeWait    = 5 * time.Second

	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// newUpgrader accepts any origin when allowedOrigins is empty, otherwise
// only the listed ones.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		},
	}
}

// trailRegistry caps the number of concurrently mounted trails.
type trailRegistry struct {
	max  int64
	live atomic.Int64
}

func newTrailRegistry(limit int) *trailRegistry {
	return &trailRegistry{max: int64(limit)}
}

func (r *trailRegistry) acquire() bool {
	if r.live.Add(1) > r.max {
		r.live.Add(-1)
		return false
	}
	return true
}

func (r *trailRegistry) release() {
	r.live.Add(-1)
}

// Live returns the number of mounted trails.
func (r *trailRegistry) Live() int64 {
	return r.live.Load()
}

func clampDimension(raw string, fallback, limit int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		n = fallback
	}
	return min(n, limit)
}

// trailSocket mounts one animator for the life of the websocket. Pointer
// events come in as JSON text messages and every frame goes out as a binary
// PNG message.
func (s *Server) trailSocket(c *gin.Context) {
	tc := s.cfg.Trail
	width := clampDimension(c.Query("w"), defaultViewportWidth, tc.MaxWidth)
	height := clampDimension(c.Query("h"), defaultViewportHeight, tc.MaxHeight)

	if !s.trails.acquire() {
		getLog().Warn().Int64("live", s.trails.Live()).Msg("Trail connection limit reached")
		c.String(http.StatusServiceUnavailable, "Too many trails")
		return
	}
	defer s.trails.release()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		getLog().Error().Err(err).Msg("Trail websocket upgrade failed")
		return
	}
	defer conn.Close()

	canvas := trail.NewCanvas(width, height, tc.RenderScale)
	var buf bytes.Buffer
	anim := trail.NewAnimator(trail.DefaultConfig(), canvas,
		trail.WithFPS(tc.FPS),
		trail.WithLogger(logger.GetLogger("trail")),
		trail.WithFrameFunc(func(uint64) error {
			buf.Reset()
			if err := canvas.EncodePNG(&buf); err != nil {
				return err
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.BinaryMessage, buf.Bytes())
		}),
	)

	handle := anim.Start(s.trailCtx)
	defer handle.Stop()
	getLog().Debug().Int("width", width).Int("height", height).Msg("Trail mounted")

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readTrailEvents(conn, anim)
	}()

	select {
	case <-readDone:
	case <-handle.Done():
		if err := handle.Err(); err != nil && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			getLog().Debug().Err(err).Msg("Trail stream ended")
		}
	}
	getLog().Debug().Msg("Trail unmounted")
}

// readTrailEvents forwards client events to anim until the connection fails
// or the animator stops.
func (s *Server) readTrailEvents(conn *websocket.Conn, anim *trail.Animator) {
	conn.SetReadLimit(maxEventSize)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				getLog().Debug().Err(err).Msg("Trail websocket read error")
			}
			return
		}

		var ev trail.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			getLog().Warn().Err(err).Msg("Invalid trail event")
			continue
		}
		if ev.Kind == trail.EventResize {
			ev.Width = min(ev.Width, s.cfg.Trail.MaxWidth)
			ev.Height = min(ev.Height, s.cfg.Trail.MaxHeight)
		}
		if !anim.Send(ev) {
			return
		}
	}
}
