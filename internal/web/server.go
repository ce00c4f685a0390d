// Package web serves the portfolio over HTTP: server-rendered views swapped
// in place with HTMX, images with a placeholder fallback, the particle trail
// stream and a small admin dashboard.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/umezakip/portfolio/internal/config"
	"github.com/umezakip/portfolio/internal/content"
	"github.com/umezakip/portfolio/internal/logger"
	"github.com/umezakip/portfolio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	log     zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		log = logger.GetLogger("web")
	})
	return &log
}

// Server is the portfolio HTTP server.
type Server struct {
	cfg     *config.AppConfig
	catalog *content.Catalog
	store   *session.Store
	text    Text

	aboutHTML   template.HTML
	caseStudies map[string]caseStudyView

	engine   *gin.Engine
	upgrader websocket.Upgrader
	trails   *trailRegistry
	admin    *adminAuth
	images   *imageHandler
	started  time.Time

	// trailCtx outlives requests; hijacked trail sockets are not covered by
	// http.Server.Shutdown, so Run cancels it on the way out.
	trailCtx   context.Context
	stopTrails context.CancelFunc

	httpServer *http.Server
}

// New builds the router. It does not start listening; call Run for that.
func New(cfg *config.AppConfig, catalog *content.Catalog, store *session.Store) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		catalog:  catalog,
		store:    store,
		text:     DefaultText,
		upgrader: newUpgrader(cfg.Server.AllowedOrigins),
		trails:   newTrailRegistry(cfg.Trail.MaxClients),
		images:   newImageHandler(cfg.Server.ImagesDir),
		started:  time.Now(),
	}
	s.trailCtx, s.stopTrails = context.WithCancel(context.Background())

	if err := s.renderCatalog(); err != nil {
		return nil, err
	}

	admin, err := newAdminAuth(cfg.Admin)
	if err != nil {
		return nil, err
	}
	s.admin = admin

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("opening static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))
	r.GET("/images/*path", s.images.serve)

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/nav/:view", s.navigate)
	r.POST("/design/case-studies/:id", s.openCaseStudy)
	r.POST("/design/close", s.closeCaseStudy)
	r.GET("/trail/ws", s.trailSocket)

	s.setupAdminRoutes(r)

	s.engine = r
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		getLog().Info().Str("addr", s.httpServer.Addr).Msg("Portfolio server listening")
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		s.stopTrails()
		return err
	case <-ctx.Done():
	}

	getLog().Info().Msg("Shutting down portfolio server")
	s.stopTrails()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}
