package render

import (
	"regexp"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/TimelordUK/featview/internal/config"
	"github.com/TimelordUK/featview/internal/feature"
	"github.com/TimelordUK/featview/internal/highlight"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func strip(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// marker renders matches inside brackets so tests can see them without ANSI
var marker = lipgloss.NewStyle().Transform(func(s string) string { return "[" + s + "]" })

func TestPaint(t *testing.T) {
	text := []rune("cat dog cat")
	spans := []highlight.Span{{Begin: 0, Length: 3}, {Begin: 8, Length: 3}, {Begin: 1, Length: 2}}

	got := Paint(text, spans, lipgloss.NewStyle(), marker)
	assert.Equal(t, "[cat] dog [cat]", strip(got))

	assert.Equal(t, "cat", strip(Paint([]rune("cat"), nil, lipgloss.NewStyle(), marker)))
}

func TestPaint_OverlapMerged(t *testing.T) {
	got := Paint([]rune("abcd"), []highlight.Span{{Begin: 0, Length: 2}, {Begin: 1, Length: 2}}, lipgloss.NewStyle(), marker)
	assert.Equal(t, "[abc]d", strip(got))
}

func TestFeatureRenderer(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := &Options{}
	r := NewFeatureRenderer(cfg, "email.txt", opts)
	r.match = marker

	line := feature.Parse("email.txt", 0, 0, []byte("4096-GZIP-255\tfoo@example.com\tctx"))
	set := highlight.NewPatternSet(nil, []byte("example"), true)

	assert.Equal(t, "255(4096-GZIP)  foo@[example].com", strip(r.Render(line, set)))

	opts.UseHex = true
	opts.ShowContext = true
	assert.Equal(t, "ff(1000-GZIP)  foo@[example].com  ctx", strip(r.Render(line, set)))
}

func TestPlainRenderer(t *testing.T) {
	line := feature.Parse("email.txt", 0, 0, []byte("10\tfoo"))
	assert.Equal(t, "10\tfoo", NewPlainRenderer().Render(line, nil))
}

func TestContextRenderer(t *testing.T) {
	r := NewContextRenderer("")
	out := r.Render(`<exif><Make>Canon</Make></exif>`)
	assert.Equal(t, `<exif><Make>Canon</Make></exif>`, strip(out))
	assert.Equal(t, "", r.Render(""))

	assert.True(t, IsSyntaxHighlightable("exif.txt"))
	assert.False(t, IsSyntaxHighlightable("email.txt"))
}
