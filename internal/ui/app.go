package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/TimelordUK/featview/internal/config"
	"github.com/TimelordUK/featview/internal/export"
	"github.com/TimelordUK/featview/internal/feature"
	"github.com/TimelordUK/featview/internal/highlight"
	"github.com/TimelordUK/featview/internal/render"
	"github.com/TimelordUK/featview/internal/source"
	"github.com/TimelordUK/featview/internal/view"
	"github.com/TimelordUK/featview/pkg/forensicpath"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHighlight
	ModeGoto
	ModeFilter
)

// ModelOptions holds options for creating a model
type ModelOptions struct {
	Path   string
	Config *config.Config
	// Filter keeps only lines whose feature contains it
	Filter string
}

type loadedMsg struct {
	src *source.FeatureSource
	err error
}

type tickMsg struct{}

// Model is the main application model
type Model struct {
	cfg      *config.Config
	keys     keyMap
	path     string
	filter   string
	settings *highlight.Settings
	opts     *render.Options

	viewport *view.Viewport
	src      *source.FeatureSource
	filtered *source.FilteredProvider
	exporter *export.Exporter
	input    textinput.Model

	cancel   context.CancelFunc
	ctx      context.Context
	progress *atomic.Int64
	loading  bool

	mode           Mode
	navigableOnly  bool
	histogramsOnly bool
	width          int
	height         int

	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style

	message string
	err     error
}

// NewModel creates a model that indexes the feature file once started
func NewModel(opts ModelOptions) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	settings := highlight.NewSettings(cfg.Highlight.MatchCase)
	settings.SetUserBytes([]byte(cfg.Highlight.Patterns))

	vp := view.NewViewport(80, 24, settings)
	vp.SetStyles(cfg.Theme.LineNumbers, cfg.Theme.SelectedLine)
	vp.SetShowLineNumbers(cfg.Display.ShowLineNumbers)

	ti := textinput.New()
	ti.CharLimit = 1024

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		cfg:      cfg,
		keys:     newKeyMap(cfg.Keybindings),
		path:     opts.Path,
		filter:   opts.Filter,
		settings: settings,
		opts: &render.Options{
			UseHex:      cfg.Display.UseHexPaths,
			ShowContext: cfg.Display.ShowContext,
		},
		viewport: vp,
		exporter: export.NewExporter(),
		input:    ti,
		ctx:      ctx,
		cancel:   cancel,
		progress: &atomic.Int64{},
		loading:  true,
		statusStyle: lipgloss.NewStyle().
			Background(lipgloss.Color(cfg.Theme.StatusBar)).
			Foreground(lipgloss.Color(cfg.Theme.StatusBarText)),
		helpStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

// load indexes the file off the UI goroutine; the frozen index reaches
// Update through loadedMsg
func (m *Model) load() tea.Cmd {
	ctx, path, progress := m.ctx, m.path, m.progress
	opts := source.ScanOptions{
		Filter:    []byte(m.filter),
		MatchCase: m.settings.MatchCase(),
		Progress:  func(p int) { progress.Store(int64(p)) },
	}
	return func() tea.Msg {
		src, err := source.NewFeatureSource(ctx, path, opts)
		return loadedMsg{src: src, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Str("path", m.path).Msg("index feature file")
			m.err = msg.err
			return m, nil
		}
		m.attach(msg.src)
		return m, nil

	case tickMsg:
		if m.loading {
			return m, tick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar and help
		m.viewport.SetSize(msg.Width, msg.Height-2)
		return m, nil
	}

	return m, nil
}

func (m *Model) attach(src *source.FeatureSource) {
	m.src = src
	m.filtered = source.NewFilteredProvider(src)
	m.viewport.SetRenderer(render.NewFeatureRenderer(m.cfg, filepath.Base(m.path), m.opts))
	m.viewport.SetProvider(m.filtered)
	m.selectionChanged()

	log.Info().
		Str("path", m.path).
		Int("lines", src.LineCount()).
		Int("widest", src.WidestLineLength()).
		Msg("feature file ready")
}

// selectionChanged feeds the selected line to the highlighter
func (m *Model) selectionChanged() {
	line := m.viewport.SelectedLine()
	if line == nil {
		m.settings.Select(nil)
		return
	}
	m.settings.Select(line.Selection())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeHighlight:
		return m.handleHighlightKey(msg)
	case ModeGoto:
		return m.handleGotoKey(msg)
	case ModeFilter:
		return m.handleFilterKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}
	if m.src == nil {
		return m, nil
	}

	m.message = ""
	moved := true
	switch {
	case key.Matches(msg, m.keys.Down):
		m.viewport.MoveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.MoveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	case key.Matches(msg, m.keys.ViewDown):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.ViewUp):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Navigable):
		m.navigableOnly = !m.navigableOnly
		m.histogramsOnly = false
		m.refilter(m.applyTypeFilter)
	case key.Matches(msg, m.keys.Histograms):
		m.histogramsOnly = !m.histogramsOnly
		m.navigableOnly = false
		m.refilter(m.applyTypeFilter)
	default:
		moved = false
	}
	if moved {
		m.selectionChanged()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.TextFilter):
		m.mode = ModeFilter
		m.input.Placeholder = "feature text..."
		m.input.SetValue(m.filtered.TextFilter())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Highlight):
		m.mode = ModeHighlight
		m.input.Placeholder = "a|b, escapes like \\x41 allowed"
		m.input.SetValue(string(m.settings.UserBytes()))
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Goto):
		m.mode = ModeGoto
		m.input.Placeholder = "Line number..."
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.MatchCase):
		m.settings.SetMatchCase(!m.settings.MatchCase())

	case key.Matches(msg, m.keys.ToggleHex):
		m.opts.UseHex = !m.opts.UseHex

	case key.Matches(msg, m.keys.Context):
		m.opts.ShowContext = !m.opts.ShowContext

	case key.Matches(msg, m.keys.Export):
		m.exportFromCursor()
	}

	return m, nil
}

// applyTypeFilter sets the provider's type filter from the toggles
func (m *Model) applyTypeFilter() {
	m.filtered.ClearFilter()
	switch {
	case m.navigableOnly:
		m.filtered.SetNavigableOnly()
	case m.histogramsOnly:
		m.filtered.ToggleType(feature.TypeHistogram)
	}
}

// refilter applies a filter change, keeping the selected line selected
// when it survives and the next visible line otherwise
func (m *Model) refilter(apply func()) {
	orig := m.filtered.OriginalLineNumber(m.viewport.Cursor())

	apply()
	m.viewport.SetProvider(m.filtered)

	if idx := m.filtered.FilteredIndexFor(orig); idx >= 0 {
		m.viewport.GotoLine(idx)
	} else {
		m.viewport.GotoBottom()
	}
}

func (m *Model) exportFromCursor() {
	filter := m.filter
	if text := m.filtered.TextFilter(); text != "" {
		filter = strings.TrimSpace(filter + " &" + text)
	}
	r := export.Range{
		StartLine: m.viewport.Cursor(),
		EndLine:   m.filtered.LineCount(),
		Filter:    filter,
		UseHex:    m.opts.UseHex,
	}
	info, err := m.exporter.ExportRange(m.filtered, m.path, r)
	if err != nil {
		log.Error().Err(err).Msg("export range")
		m.message = "export failed: " + err.Error()
		return
	}
	log.Info().Str("output", info.OutputPath).Int("start", info.StartLine).Int("end", info.EndLine).Msg("exported range")
	m.message = "exported to " + info.OutputPath
}

func (m *Model) handleHighlightKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.settings.SetUserBytes([]byte(m.input.Value()))
		m.leaveInput()
		return m, nil

	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err == nil && n > 0 {
			// line numbers count indexed lines, so '#' comments are not
			// counted; the filtered list maps them to the nearest visible line
			if idx := m.filtered.FilteredIndexFor(n - 1); idx >= 0 {
				m.viewport.GotoLine(idx)
			} else {
				m.viewport.GotoBottom()
			}
			m.selectionChanged()
		}
		m.leaveInput()
		return m, nil

	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.refilter(func() { m.filtered.SetTextFilter(text) })
		m.selectionChanged()
		m.leaveInput()
		return m, nil

	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	m.mode = ModeNormal
	m.input.Blur()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}
	if m.loading {
		return fmt.Sprintf("Indexing %s... %d%%", m.path, m.progress.Load())
	}

	var builder strings.Builder
	builder.WriteString(m.viewport.Render())
	builder.WriteString("\n")
	builder.WriteString(m.statusStyle.Width(m.width).Render(m.statusLine()))
	builder.WriteString("\n")
	builder.WriteString(m.helpStyle.Render(m.keys.helpLine()))
	return builder.String()
}

func (m *Model) statusLine() string {
	switch m.mode {
	case ModeHighlight:
		return "/" + m.input.View()
	case ModeGoto:
		return ":" + m.input.View()
	case ModeFilter:
		return "&" + m.input.View()
	}
	if m.message != "" {
		return " " + m.message
	}

	parts := []string{
		" " + filepath.Base(m.path),
		fmt.Sprintf("L%d/%d", m.viewport.Cursor()+1, m.filtered.LineCount()),
		fmt.Sprintf("%.0f%%", m.viewport.PercentScrolled()),
	}

	if line := m.viewport.SelectedLine(); line != nil && line.Navigable() {
		page := forensicpath.AlignedPath(line.Path(), m.cfg.Display.PageSize)
		parts = append(parts, "page "+forensicpath.PrintablePath(page, m.opts.UseHex))
	}

	var flags []string
	if m.navigableOnly {
		flags = append(flags, "navigable")
	}
	if m.histogramsOnly {
		flags = append(flags, "histograms")
	}
	if m.opts.UseHex {
		flags = append(flags, "hex")
	}
	if m.settings.MatchCase() {
		flags = append(flags, "case")
	}
	if len(flags) > 0 {
		parts = append(parts, "["+strings.Join(flags, ",")+"]")
	}
	if text := m.filtered.TextFilter(); text != "" {
		parts = append(parts, "&"+text)
	}
	if user := m.settings.UserBytes(); len(user) > 0 {
		parts = append(parts, "/"+string(user))
	}
	return strings.Join(parts, "  ")
}

// Close cleans up resources
func (m *Model) Close() error {
	m.cancel()
	if m.src != nil {
		return m.src.Close()
	}
	return nil
}
