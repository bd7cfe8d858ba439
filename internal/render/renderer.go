package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/featview/internal/config"
	"github.com/TimelordUK/featview/internal/feature"
	"github.com/TimelordUK/featview/internal/highlight"
)

// Renderer applies styling to feature lines
type Renderer interface {
	Render(line *feature.Line, set *highlight.PatternSet) string
}

// Options are display switches that may change while viewing
type Options struct {
	UseHex      bool
	ShowContext bool
}

// FeatureRenderer draws the first field and the formatted feature, with
// highlight matches painted over the feature text
type FeatureRenderer struct {
	opts     *Options
	context  *ContextRenderer
	path     lipgloss.Style
	hist     lipgloss.Style
	base     lipgloss.Style
	match    lipgloss.Style
	ctxStyle lipgloss.Style
}

// NewFeatureRenderer creates a renderer with config. opts is read on
// every Render so toggles take effect immediately.
func NewFeatureRenderer(cfg *config.Config, featureFile string, opts *Options) *FeatureRenderer {
	r := &FeatureRenderer{
		opts:     opts,
		path:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Path)),
		hist:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Histogram)),
		base:     lipgloss.NewStyle(),
		match:    lipgloss.NewStyle().Background(lipgloss.Color(cfg.Theme.UserMatch)).Foreground(lipgloss.Color(cfg.Theme.UserMatchText)),
		ctxStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)),
	}
	if IsSyntaxHighlightable(featureFile) {
		r.context = NewContextRenderer(cfg.Theme.ContextSyntaxes)
	}
	return r
}

// Render draws one feature line
func (r *FeatureRenderer) Render(line *feature.Line, set *highlight.PatternSet) string {
	var b strings.Builder

	first := line.FormattedFirstField(r.opts.UseHex)
	if line.Type == feature.TypeHistogram {
		b.WriteString(r.hist.Render(first))
	} else {
		b.WriteString(r.path.Render(first))
	}
	b.WriteString("  ")

	text := []rune(line.FormattedFeature())
	b.WriteString(Paint(text, highlight.Spans(text, set), r.base, r.match))

	if r.opts.ShowContext && len(line.Context) > 0 {
		b.WriteString("  ")
		if r.context != nil {
			b.WriteString(r.context.Render(string(line.Context)))
		} else {
			b.WriteString(r.ctxStyle.Render(string(line.Context)))
		}
	}
	return b.String()
}

// Paint styles the runes of text covered by any span with match and the
// rest with base. Overlapping spans are merged.
func Paint(text []rune, spans []highlight.Span, base, match lipgloss.Style) string {
	if len(spans) == 0 {
		return base.Render(string(text))
	}

	covered := make([]bool, len(text))
	for _, s := range spans {
		for i := s.Begin; i < s.End() && i < len(text); i++ {
			covered[i] = true
		}
	}

	var b strings.Builder
	for start := 0; start < len(text); {
		end := start
		for end < len(text) && covered[end] == covered[start] {
			end++
		}
		if covered[start] {
			b.WriteString(match.Render(string(text[start:end])))
		} else {
			b.WriteString(base.Render(string(text[start:end])))
		}
		start = end
	}
	return b.String()
}

// PlainRenderer renders without styling or highlights
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the first field and feature text as-is
func (r *PlainRenderer) Render(line *feature.Line, _ *highlight.PatternSet) string {
	return line.FirstField + "\t" + line.FormattedFeature()
}
