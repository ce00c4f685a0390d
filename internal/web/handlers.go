package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/umezakip/portfolio/internal/nav"
)

// ScrollTopEvent is the client event raised after a navigation.
const ScrollTopEvent = "portfolio:scroll-top"

// visitorID returns the session id from the cookie, issuing a new one when
// the cookie is missing or malformed.
func (s *Server) visitorID(c *gin.Context) string {
	name := s.cfg.Session.CookieName
	if id, err := c.Cookie(name); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, id, 0, "/", "", false, true)
	return id
}

func (s *Server) index(c *gin.Context) {
	st, err := s.store.Load(c.Request.Context(), s.visitorID(c))
	if err != nil {
		getLog().Error().Err(err).Msg("Failed to load session")
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.HTML(http.StatusOK, "layout", s.page(st))
}

func (s *Server) navigate(c *gin.Context) {
	view, err := nav.ParseView(c.Param("view"))
	if err != nil {
		c.String(http.StatusBadRequest, "Unknown view")
		return
	}

	var effect nav.Effect
	st, ok := s.transition(c, func(st nav.State) nav.State {
		next, eff := st.Navigate(view)
		effect = eff
		return next
	})
	if ok {
		s.respond(c, st, effect)
	}
}

func (s *Server) openCaseStudy(c *gin.Context) {
	id := c.Param("id")
	st, ok := s.transition(c, func(st nav.State) nav.State {
		next, opened := st.OpenCaseStudy(id)
		if !opened {
			getLog().Debug().Str("case_study", id).Str("view", string(st.View)).
				Msg("Ignoring case study selection outside design")
		}
		return next
	})
	if ok {
		s.respond(c, st, nav.Effect{})
	}
}

func (s *Server) closeCaseStudy(c *gin.Context) {
	st, ok := s.transition(c, nav.State.CloseCaseStudy)
	if ok {
		s.respond(c, st, nav.Effect{})
	}
}

// transition applies fn to the visitor's state. On failure it writes the
// error response and reports false.
func (s *Server) transition(c *gin.Context, fn func(nav.State) nav.State) (nav.State, bool) {
	id := s.visitorID(c)
	st, err := s.store.Update(c.Request.Context(), id, fn)
	if err != nil {
		getLog().Error().Err(err).Msg("Failed to update session")
		c.String(http.StatusInternalServerError, "Something went wrong")
		return nav.State{}, false
	}
	return st, true
}

// respond renders the app fragment for HTMX requests and redirects plain
// form posts back to the page.
func (s *Server) respond(c *gin.Context, st nav.State, effect nav.Effect) {
	if c.GetHeader("HX-Request") != "true" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if effect.ScrollToTop {
		c.Header("HX-Trigger", ScrollTopEvent)
	}
	c.HTML(http.StatusOK, "app", s.page(st))
}
