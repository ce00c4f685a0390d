package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/umezakip/portfolio/internal/placeholder"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".avif": true,
}

// imageHandler serves files under dir. Missing images get the placeholder
// graphic instead of a 404 so a case study never shows a broken image.
type imageHandler struct {
	dir         string
	placeholder func() ([]byte, error)
}

func newImageHandler(dir string) *imageHandler {
	return &imageHandler{
		dir: dir,
		placeholder: sync.OnceValues(func() ([]byte, error) {
			return placeholder.Render(placeholder.DefaultWidth, placeholder.DefaultHeight, placeholder.DefaultLabel)
		}),
	}
}

func (h *imageHandler) serve(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("path"), "/")
	if rel == "" || !filepath.IsLocal(rel) {
		c.String(http.StatusBadRequest, "Invalid image path")
		return
	}

	full := filepath.Join(h.dir, filepath.FromSlash(rel))
	if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
		c.File(full)
		return
	}

	if !imageExts[strings.ToLower(filepath.Ext(rel))] {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	data, err := h.placeholder()
	if err != nil {
		getLog().Error().Err(err).Msg("Failed to render placeholder image")
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	getLog().Debug().Str("path", rel).Msg("Serving placeholder for missing image")
	c.Header("X-Placeholder", "true")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", data)
}
