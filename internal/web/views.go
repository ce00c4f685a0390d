package web

import (
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/samber/lo"

	"github.com/umezakip/portfolio/internal/content"
	"github.com/umezakip/portfolio/internal/lava"
	"github.com/umezakip/portfolio/internal/nav"
)

type navItem struct {
	View   nav.View
	Label  string
	Active bool
}

type imageView struct {
	Src string
	Alt string
}

type caseStudyView struct {
	ID     string
	Title  string
	HTML   template.HTML
	Images []imageView
}

// pageData feeds the "layout" and "app" templates.
type pageData struct {
	State    nav.State
	Page     string
	Backdrop string
	Nav      []navItem
	Copy     Text

	Profile     content.Profile
	AboutHTML   template.HTML
	Design      []content.DesignEntry
	CaseStudy   *caseStudyView
	MissingID   string
	Development []content.ProjectRecord
	Social      []content.SocialLink
	Lava        lava.Scene
}

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
}

// renderCatalog converts the catalog's markdown once; the catalog does not
// change while the server runs.
func (s *Server) renderCatalog() error {
	about, err := content.Markdown(s.catalog.Profile.About)
	if err != nil {
		return fmt.Errorf("about: %w", err)
	}
	s.aboutHTML = about

	s.caseStudies = make(map[string]caseStudyView, len(s.catalog.CaseStudies))
	for _, cs := range s.catalog.CaseStudies {
		body, err := content.Markdown(cs.Content)
		if err != nil {
			return fmt.Errorf("case study %s: %w", cs.ID, err)
		}
		s.caseStudies[cs.ID] = caseStudyView{
			ID:    cs.ID,
			Title: cs.Title,
			HTML:  body,
			Images: lo.Map(cs.Images, func(src string, i int) imageView {
				return imageView{Src: imageURL(src), Alt: fmt.Sprintf("%s - Visual %d", cs.Title, i+1)}
			}),
		}
	}
	return nil
}

// imageURL maps a catalog image path onto the /images route.
func imageURL(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return path.Join("/images", strings.TrimPrefix(src, "/images/"))
}

func (s *Server) page(st nav.State) pageData {
	page := nav.Select(st, s.catalog.HasCaseStudy)
	data := pageData{
		State:    st,
		Page:     page.Template(),
		Backdrop: string(nav.BackdropFor(st.View)),
		Nav: lo.Map(nav.Views, func(v nav.View, _ int) navItem {
			return navItem{View: v, Label: v.Label(), Active: v == st.View}
		}),
		Copy:    s.text,
		Profile: s.catalog.Profile,
		Lava:    lava.DefaultScene(),
	}

	switch page {
	case nav.PageAbout:
		data.AboutHTML = s.aboutHTML
	case nav.PageGallery:
		data.Design = s.catalog.Design
	case nav.PageCaseStudy:
		cs := s.caseStudies[st.CaseStudy]
		data.CaseStudy = &cs
	case nav.PageCaseStudyNotFound:
		data.MissingID = st.CaseStudy
	case nav.PageDevelopment:
		data.Development = s.catalog.Development
	case nav.PageContact:
		data.Social = s.catalog.Social
	}
	return data
}
