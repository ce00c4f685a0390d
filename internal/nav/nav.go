// Package nav holds the portfolio's view state: which top-level view a visitor
// is on and, inside the design view, which case study is open.
//
// Every transition returns the complete next State, so a case study selection
// can only exist while the view is design.
package nav

import (
	"errors"
	"fmt"
)

// View identifies a top-level page.
type View string

const (
	Home        View = "home"
	About       View = "about"
	Design      View = "design"
	Development View = "development"
	Contact     View = "contact"
)

// Views lists every view in navigation bar order.
var Views = []View{Home, About, Design, Development, Contact}

// ErrUnknownView is returned by ParseView for anything outside Views.
var ErrUnknownView = errors.New("unknown view")

// ParseView converts a raw identifier into a View.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Label is the navigation bar caption for v.
func (v View) Label() string {
	switch v {
	case Home:
		return "Home"
	case About:
		return "About Me"
	case Design:
		return "Design"
	case Development:
		return "Development"
	case Contact:
		return "Contact"
	}
	return string(v)
}

// State is a visitor's navigation state. An empty CaseStudy means no case
// study is open.
type State struct {
	View      View   `json:"view"`
	CaseStudy string `json:"case_study,omitempty"`
}

// Effect describes what the page should do besides rendering the next state.
type Effect struct {
	ScrollToTop bool
}

// Initial is the state of a new visitor.
func Initial() State {
	return State{View: Home}
}

// Navigate switches to v. Leaving design, or arriving at it from elsewhere,
// always clears the case study selection.
func (s State) Navigate(v View) (State, Effect) {
	next := State{View: v}
	if v == Design && s.View == Design {
		next.CaseStudy = s.CaseStudy
	}
	return next, Effect{ScrollToTop: true}
}

// OpenCaseStudy selects the case study id. Outside the design view it changes
// nothing and reports false. The id is not checked against any catalog.
func (s State) OpenCaseStudy(id string) (State, bool) {
	if s.View != Design {
		return s, false
	}
	return State{View: Design, CaseStudy: id}, true
}

// CloseCaseStudy returns to the design gallery.
func (s State) CloseCaseStudy() State {
	return State{View: s.View}
}

// Valid reports whether the case study selection invariant holds.
func (s State) Valid() bool {
	return s.CaseStudy == "" || s.View == Design
}

func (s State) String() string {
	if s.CaseStudy == "" {
		return fmt.Sprintf("(%s, none)", s.View)
	}
	return fmt.Sprintf("(%s, %s)", s.View, s.CaseStudy)
}
