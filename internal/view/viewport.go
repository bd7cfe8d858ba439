package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/featview/internal/feature"
	"github.com/TimelordUK/featview/internal/highlight"
	"github.com/TimelordUK/featview/internal/render"
	"github.com/TimelordUK/featview/internal/source"
)

// Viewport manages the visible portion of a feature list and the
// selected line. It knows nothing about files or filters; it only
// displays lines from a LineProvider.
type Viewport struct {
	provider source.LineProvider
	renderer render.Renderer
	settings *highlight.Settings

	// Dimensions
	width  int
	height int

	// Scroll position and selected line, both provider indexes
	scrollOffset int
	cursor       int

	// Styling
	lineNumberStyle lipgloss.Style
	selectedStyle   lipgloss.Style

	// Options
	showLineNumbers bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int, settings *highlight.Settings) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		settings:        settings,
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		selectedStyle:   lipgloss.NewStyle().Background(lipgloss.Color("237")),
		renderer:        render.NewPlainRenderer(),
	}
}

// SetStyles sets the line number and selected line colors
func (v *Viewport) SetStyles(lineNumbers, selected string) {
	v.lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(lineNumbers))
	v.selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color(selected))
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetProvider sets the line provider
func (v *Viewport) SetProvider(provider source.LineProvider) {
	v.provider = provider
	v.scrollOffset = 0
	v.cursor = 0
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollDown scrolls down by n lines. The cursor moves only when it
// would leave the screen.
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
	v.keepCursorOnScreen()
}

// ScrollUp scrolls up by n lines
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
	v.keepCursorOnScreen()
}

func (v *Viewport) keepCursorOnScreen() {
	if v.cursor < v.scrollOffset {
		v.cursor = v.scrollOffset
	}
	if v.height > 0 && v.cursor >= v.scrollOffset+v.height {
		v.cursor = v.scrollOffset + v.height - 1
	}
	v.clampCursor()
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.MoveCursor(v.height - 1)
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.MoveCursor(-(v.height - 1))
}

// GotoTop moves to the first line
func (v *Viewport) GotoTop() {
	v.GotoLine(0)
}

// GotoBottom moves to the last line
func (v *Viewport) GotoBottom() {
	if v.provider == nil {
		return
	}
	v.GotoLine(v.provider.LineCount() - 1)
}

// GotoLine selects a line and scrolls it into view
func (v *Viewport) GotoLine(line int) {
	v.cursor = line
	v.clampCursor()
	v.revealCursor()
}

// MoveCursor moves the selection by n lines
func (v *Viewport) MoveCursor(n int) {
	v.GotoLine(v.cursor + n)
}

// Cursor returns the selected provider index
func (v *Viewport) Cursor() int {
	return v.cursor
}

// SelectedLine returns the selected feature line, or nil when empty
func (v *Viewport) SelectedLine() *feature.Line {
	if v.provider == nil || v.provider.LineCount() == 0 {
		return nil
	}
	line, err := v.provider.GetLine(v.cursor)
	if err != nil {
		return nil
	}
	return line
}

func (v *Viewport) clampCursor() {
	last := 0
	if v.provider != nil {
		last = v.provider.LineCount() - 1
	}
	if v.cursor > last {
		v.cursor = last
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *Viewport) revealCursor() {
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.height > 0 && v.cursor >= v.scrollOffset+v.height {
		v.scrollOffset = v.cursor - v.height + 1
	}
	v.clampScroll()
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	if v.provider == nil {
		v.scrollOffset = 0
		return
	}

	maxScroll := v.provider.LineCount() - v.height
	if maxScroll < 0 {
		maxScroll = 0
	}

	if v.scrollOffset > maxScroll {
		v.scrollOffset = maxScroll
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.provider == nil {
		return ""
	}

	lines, err := v.provider.GetLines(v.scrollOffset, v.height)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	// one snapshot per frame
	var set *highlight.PatternSet
	if v.settings != nil {
		set = v.settings.Snapshot()
	}

	var builder strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", v.provider.LineCount()))

	for i, line := range lines {
		if i > 0 {
			builder.WriteString("\n")
		}

		if v.showLineNumbers {
			builder.WriteString(v.lineNumberStyle.Render(fmt.Sprintf("%*d ", lineNumWidth, line.Number+1)))
		}

		content := v.renderer.Render(line, set)
		if v.scrollOffset+i == v.cursor {
			content = v.selectedStyle.Render(content)
		}
		builder.WriteString(content)
	}

	// Pad with empty lines if needed
	for i := len(lines); i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// PercentScrolled returns how far through the list we are
func (v *Viewport) PercentScrolled() float64 {
	if v.provider == nil || v.provider.LineCount() == 0 {
		return 0
	}

	total := v.provider.LineCount()
	if total <= v.height {
		return 100
	}

	return float64(v.scrollOffset) / float64(total-v.height) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}
