package web

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/umezakip/portfolio/internal/config"
	"github.com/umezakip/portfolio/internal/nav"
	"github.com/umezakip/portfolio/internal/session"
)

const adminCookie = "admin_token"

// AdminStats is the dashboard payload.
type AdminStats struct {
	Sessions           *session.Stats `json:"sessions"`
	LiveTrails         int64          `json:"live_trails"`
	MaxTrails          int            `json:"max_trails"`
	MissingCaseStudies []string       `json:"missing_case_studies"`
	Uptime             string         `json:"uptime"`
}

type viewCount struct {
	Label string
	Count int
}

// adminAuth holds the per-process secrets. The token is regenerated on every
// start, so a restart logs everybody out.
type adminAuth struct {
	username string
	password string
	token    string
	salt     string
}

func newAdminAuth(cfg config.AdminConfig) (*adminAuth, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}
	return &adminAuth{
		username: cfg.Username,
		password: cfg.Password,
		token:    token,
		salt:     salt,
	}, nil
}

func (a *adminAuth) enabled() bool {
	return a.password != ""
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashIP maps a client address to a short salted digest, stable for the life
// of the process.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return userOK&passOK == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminStats(c *gin.Context) (*AdminStats, error) {
	sessions, err := s.store.Stats(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return &AdminStats{
		Sessions:           sessions,
		LiveTrails:         s.trails.Live(),
		MaxTrails:          s.cfg.Trail.MaxClients,
		MissingCaseStudies: s.catalog.MissingCaseStudies(),
		Uptime:             time.Since(s.started).Round(time.Second).String(),
	}, nil
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	if !s.admin.enabled() {
		getLog().Info().Msg("Admin dashboard disabled: no admin password configured")
		return
	}
	getLog().Info().Msg("Admin access available at /admin/login")

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		visitor := s.admin.hashIP(c.ClientIP())
		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			getLog().Warn().Str("visitor", visitor).Msg("Failed admin login attempt")
			c.HTML(http.StatusUnauthorized, "admin-login", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, int((24 * time.Hour).Seconds()), "/admin", "", false, true)
		getLog().Info().Str("visitor", visitor).Msg("Admin login successful")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		getLog().Info().Str("visitor", s.admin.hashIP(c.ClientIP())).Msg("Admin logout")
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			getLog().Error().Err(err).Msg("Error loading admin stats")
			c.String(http.StatusInternalServerError, "Failed to load statistics")
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard", gin.H{
			"stats": stats,
			"views": lo.Map(nav.Views, func(v nav.View, _ int) viewCount {
				return viewCount{Label: v.Label(), Count: stats.Sessions.ByView[v]}
			}),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/sessions/sweep", func(c *gin.Context) {
		removed, err := s.store.Sweep(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		getLog().Info().Int64("removed", removed).Str("visitor", s.admin.hashIP(c.ClientIP())).
			Msg("Session sweep requested by admin")
		if c.GetHeader("Accept") == "application/json" {
			c.JSON(http.StatusOK, gin.H{"removed": removed})
			return
		}
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
	})
}
