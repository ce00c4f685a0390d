package web

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umezakip/portfolio/internal/config"
	"github.com/umezakip/portfolio/internal/trail"
)

func dialTrail(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/trail/ws" + query
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func readFrame(t *testing.T, conn *websocket.Conn) (int, int) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, kind)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestTrailSocketStreamsFrames(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	conn, _, err := dialTrail(t, srv, "?w=64&h=48")
	require.NoError(t, err)

	w, h := readFrame(t, conn)
	assert.Equal(t, 32, w, "rendered at half scale")
	assert.Equal(t, 24, h)
	assert.Equal(t, int64(1), ts.trails.Live())

	require.NoError(t, conn.WriteJSON(trail.Event{Kind: trail.EventPointerMove, X: 10, Y: 10}))
	require.NoError(t, conn.WriteJSON(trail.Event{Kind: trail.EventResize, Width: 128, Height: 96}))

	deadline := time.Now().Add(5 * time.Second)
	for {
		if w, h := readFrame(t, conn); w == 64 && h == 48 {
			break
		}
		require.True(t, time.Now().Before(deadline), "resize never reached the canvas")
	}

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return ts.trails.Live() == 0 }, 5*time.Second, 10*time.Millisecond,
		"closing the socket unmounts the trail")
}

func TestTrailSocketClampsViewport(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.AppConfig) {
		cfg.Trail.MaxWidth = 100
		cfg.Trail.MaxHeight = 80
		cfg.Trail.RenderScale = 1
	})
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	conn, _, err := dialTrail(t, srv, "?w=5000&h=5000")
	require.NoError(t, err)
	defer conn.Close()

	w, h := readFrame(t, conn)
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)
}

func TestTrailSocketLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.AppConfig) { cfg.Trail.MaxClients = 1 })
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	first, _, err := dialTrail(t, srv, "?w=16&h=16")
	require.NoError(t, err)
	defer first.Close()
	readFrame(t, first)

	_, resp, err := dialTrail(t, srv, "?w=16&h=16")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTrailSocketStopsOnShutdown(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	conn, _, err := dialTrail(t, srv, "?w=16&h=16")
	require.NoError(t, err)
	defer conn.Close()
	readFrame(t, conn)

	ts.stopTrails()
	assert.Eventually(t, func() bool { return ts.trails.Live() == 0 }, 5*time.Second, 10*time.Millisecond)
}
