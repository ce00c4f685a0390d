// Package content holds the portfolio's static tables: profile copy, the
// design gallery, case studies, development projects and social links.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultCatalog []byte

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrInvalid     = errors.New("invalid catalog")
)

// Highlight is a short badge on the about page.
type Highlight struct {
	Icon string `yaml:"icon"`
	Text string `yaml:"text"`
}

// Profile is the site-wide copy.
type Profile struct {
	Name              string      `yaml:"name"`
	Headline          string      `yaml:"headline"`
	Tagline           string      `yaml:"tagline"`
	About             string      `yaml:"about"` // markdown
	Highlights        []Highlight `yaml:"highlights"`
	DesignSkills      string      `yaml:"design_skills"`
	DevelopmentSkills string      `yaml:"development_skills"`
	ContactBlurb      string      `yaml:"contact_blurb"`
	Footer            string      `yaml:"footer"`
	BackgroundVideo   string      `yaml:"background_video"`
	VideoPlaybackRate float64     `yaml:"video_playback_rate"`
}

// DesignEntry is a card in the design gallery. Its ID selects a case study.
type DesignEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CaseStudy is the detail page behind a design entry.
type CaseStudy struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"` // markdown
	Images  []string `yaml:"images"`
}

// ProjectRecord is a development project with an optional outbound link.
type ProjectRecord struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link,omitempty"`
}

// SocialLink is a contact icon.
type SocialLink struct {
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// External reports whether the link opens in a new browsing context.
func (s SocialLink) External() bool {
	return !strings.HasPrefix(s.URL, "mailto:")
}

// Catalog is the complete content table set.
type Catalog struct {
	Profile     Profile         `yaml:"profile"`
	Design      []DesignEntry   `yaml:"design"`
	CaseStudies []CaseStudy     `yaml:"case_studies"`
	Development []ProjectRecord `yaml:"development"`
	Social      []SocialLink    `yaml:"social"`

	caseStudies map[string]CaseStudy
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.caseStudies = lo.KeyBy(c.CaseStudies, func(cs CaseStudy) string { return cs.ID })
	return &c, nil
}

// Validate checks ids are present and unique within each table and that
// every record has a title.
func (c *Catalog) Validate() error {
	var errs []error

	check := func(table string, ids []string, titles []string) {
		for i, id := range ids {
			if strings.TrimSpace(id) == "" {
				errs = append(errs, fmt.Errorf("%w: %s[%d] has no id", ErrInvalid, table, i))
			}
			if strings.TrimSpace(titles[i]) == "" {
				errs = append(errs, fmt.Errorf("%w: %s %q has no title", ErrInvalid, table, id))
			}
		}
		for _, dup := range lo.FindDuplicates(ids) {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrDuplicateID, table, dup))
		}
	}

	check("design",
		lo.Map(c.Design, func(d DesignEntry, _ int) string { return d.ID }),
		lo.Map(c.Design, func(d DesignEntry, _ int) string { return d.Title }))
	check("case_studies",
		lo.Map(c.CaseStudies, func(cs CaseStudy, _ int) string { return cs.ID }),
		lo.Map(c.CaseStudies, func(cs CaseStudy, _ int) string { return cs.Title }))
	check("development",
		lo.Map(c.Development, func(p ProjectRecord, _ int) string { return p.ID }),
		lo.Map(c.Development, func(p ProjectRecord, _ int) string { return p.Title }))

	return errors.Join(errs...)
}

// CaseStudy looks up a case study by id. A miss is an ordinary result.
func (c *Catalog) CaseStudy(id string) (CaseStudy, bool) {
	cs, ok := c.caseStudies[id]
	return cs, ok
}

// HasCaseStudy reports whether id resolves.
func (c *Catalog) HasCaseStudy(id string) bool {
	_, ok := c.caseStudies[id]
	return ok
}

// MissingCaseStudies lists gallery entries whose id has no case study.
func (c *Catalog) MissingCaseStudies() []string {
	return lo.FilterMap(c.Design, func(d DesignEntry, _ int) (string, bool) {
		return d.ID, !c.HasCaseStudy(d.ID)
	})
}

// Images lists every image path referenced by case studies, deduplicated.
func (c *Catalog) Images() []string {
	return lo.Uniq(lo.FlatMap(c.CaseStudies, func(cs CaseStudy, _ int) []string { return cs.Images }))
}

var md = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// Markdown renders trusted catalog text into HTML. Raw HTML in the source is
// not passed through.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
