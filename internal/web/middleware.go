package web

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var quietPrefixes = []string{"/static/", "/images/", "/healthz", "/favicon"}

// requestLogger logs each request with its status and duration. Asset paths
// are skipped, and the hashed client address is left out when the browser
// sends DNT.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range quietPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = getLog().Error()
		case status >= 400:
			ev = getLog().Warn()
		default:
			ev = getLog().Info()
		}
		if c.GetHeader("DNT") != "1" {
			ev = ev.Str("visitor", s.admin.hashIP(c.ClientIP()))
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}
