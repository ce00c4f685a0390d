package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Design, 11)
	assert.Len(t, c.Development, 3)
	assert.Len(t, c.Social, 3)
	assert.Equal(t, "Peter Umezaki", c.Profile.Name)
	assert.Equal(t, 0.75, c.Profile.VideoPlaybackRate)

	obp, ok := c.CaseStudy("OBP")
	require.True(t, ok)
	assert.Equal(t, "Ocean Blue Prime", obp.Title)
	assert.Equal(t, []string{"/images/OBP.jpg"}, obp.Images)
	assert.Contains(t, obp.Content, "premium steakhouse")
}

func TestMissingCaseStudies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"EFC", "UC", "TSG"}, c.MissingCaseStudies())
	assert.False(t, c.HasCaseStudy("EFC"))

	_, ok := c.CaseStudy("nope")
	assert.False(t, ok)
}

func TestImagesDeduplicated(t *testing.T) {
	c, err := Parse([]byte(`
case_studies:
  - id: a
    title: A
    images: [/images/x.jpg, /images/y.jpg]
  - id: b
    title: B
    images: [/images/x.jpg]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/x.jpg", "/images/y.jpg"}, c.Images())
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name: "duplicate design id",
			yaml: `
design:
  - {id: OBP, title: One}
  - {id: OBP, title: Two}
`,
			wantErr: ErrDuplicateID,
		},
		{
			name: "missing case study title",
			yaml: `
case_studies:
  - {id: OBP, title: ""}
`,
			wantErr: ErrInvalid,
		},
		{
			name: "missing project id",
			yaml: `
development:
  - {title: Something}
`,
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("design:\n  - {id: a, title: A, colour: red}\n"))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profile:
  name: Someone
design:
  - {id: one, title: One}
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Someone", c.Profile.Name)
	assert.Equal(t, []string{"one"}, c.MissingCaseStudies())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	html, err := Markdown("First paragraph.\n\nSecond *with* emphasis.")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(html), "<p>"))
	assert.Contains(t, string(html), "<em>with</em>")

	html, err = Markdown("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestSocialLinkExternal(t *testing.T) {
	assert.False(t, SocialLink{URL: "mailto:a@b.c"}.External())
	assert.True(t, SocialLink{URL: "https://github.com/umezakip"}.External())
}
