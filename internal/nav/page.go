package nav

// Page is the template a State renders as.
type Page int

const (
	PageHome Page = iota
	PageAbout
	PageGallery
	PageCaseStudy
	PageCaseStudyNotFound
	PageDevelopment
	PageContact
)

var pageNames = map[Page]string{
	PageHome:              "home",
	PageAbout:             "about",
	PageGallery:           "gallery",
	PageCaseStudy:         "case-study",
	PageCaseStudyNotFound: "case-study-not-found",
	PageDevelopment:       "development",
	PageContact:           "contact",
}

// Template is the name of the template block that renders p.
func (p Page) Template() string {
	return pageNames[p]
}

func (p Page) String() string {
	return pageNames[p]
}

// Select picks the page for s. exists reports whether a case study id
// resolves; an open selection that does not resolve renders the not-found page.
func Select(s State, exists func(id string) bool) Page {
	switch s.View {
	case About:
		return PageAbout
	case Design:
		if s.CaseStudy == "" {
			return PageGallery
		}
		if exists != nil && exists(s.CaseStudy) {
			return PageCaseStudy
		}
		return PageCaseStudyNotFound
	case Development:
		return PageDevelopment
	case Contact:
		return PageContact
	default:
		return PageHome
	}
}

// Backdrop is the decoration mounted behind a view.
type Backdrop string

const (
	BackdropVideo Backdrop = "video"
	BackdropLava  Backdrop = "lava"
	BackdropTrail Backdrop = "trail"
)

// BackdropFor returns the decoration for v.
func BackdropFor(v View) Backdrop {
	switch v {
	case Home:
		return BackdropVideo
	case Design, Development:
		return BackdropTrail
	default:
		return BackdropLava
	}
}
