package highlight

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/TimelordUK/featview/pkg/escape"
	"github.com/TimelordUK/featview/pkg/forensicpath"
)

// PatternSeparator splits a user highlight buffer into patterns
const PatternSeparator = '|'

// Selection describes the feature line the user has selected
type Selection struct {
	FirstField []byte // raw first field of the line and the tab after it
	Path       string // forensic path, empty when the line has no address
	Text       string // formatted feature text
}

// Navigable reports whether the selection names a real address. Histogram
// summaries and lines without a path are not highlighted.
func (s *Selection) Navigable() bool {
	return s != nil && s.Path != "" && !forensicpath.IsHistogram(s.FirstField)
}

// PatternSet is an immutable set of patterns for one render
type PatternSet struct {
	Patterns [][]rune
	CaseFold bool
}

// SplitUserBytes splits a user highlight buffer on '|'. Empty pieces,
// from doubled or trailing separators, are dropped. The pieces stay
// escaped.
func SplitUserBytes(b []byte) [][]byte {
	var parts [][]byte
	for _, part := range bytes.Split(b, []byte{PatternSeparator}) {
		if len(part) > 0 {
			parts = append(parts, bytes.Clone(part))
		}
	}
	return parts
}

// UserPatterns unescapes each piece of a user highlight buffer and
// decodes it as text.
func UserPatterns(b []byte) [][]rune {
	var patterns [][]rune
	for _, part := range SplitUserBytes(b) {
		patterns = append(patterns, []rune(string(escape.Unescape(part))))
	}
	return patterns
}

// NewPatternSet builds the patterns for one render: the selected feature
// text first, when the selection is navigable, then the user patterns.
func NewPatternSet(sel *Selection, userBytes []byte, matchCase bool) *PatternSet {
	var patterns [][]rune
	if sel.Navigable() && sel.Text != "" {
		patterns = append(patterns, []rune(sel.Text))
	}
	patterns = append(patterns, UserPatterns(userBytes)...)

	return &PatternSet{
		Patterns: patterns,
		CaseFold: !matchCase,
	}
}

// Settings holds the highlight state the user edits. Each change
// publishes a new PatternSet; renderers take one Snapshot per line and
// never see a mix of old and new patterns.
type Settings struct {
	mu        sync.Mutex
	userBytes []byte
	matchCase bool
	selection *Selection

	current atomic.Pointer[PatternSet]
}

// NewSettings creates settings with no patterns
func NewSettings(matchCase bool) *Settings {
	s := &Settings{matchCase: matchCase}
	s.publish()
	return s
}

// publish rebuilds the snapshot; callers hold mu
func (s *Settings) publish() {
	s.current.Store(NewPatternSet(s.selection, s.userBytes, s.matchCase))
}

// SetUserBytes replaces the user highlight buffer. It returns false when
// the buffer is unchanged.
func (s *Settings) SetUserBytes(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(b, s.userBytes) {
		return false
	}
	s.userBytes = bytes.Clone(b)
	s.publish()
	return true
}

// UserBytes returns a copy of the user highlight buffer
func (s *Settings) UserBytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.userBytes)
}

// SetMatchCase sets whether matching is case sensitive. It returns false
// when the flag is unchanged.
func (s *Settings) SetMatchCase(matchCase bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.matchCase == matchCase {
		return false
	}
	s.matchCase = matchCase
	s.publish()
	return true
}

// MatchCase reports whether matching is case sensitive
func (s *Settings) MatchCase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchCase
}

// Select sets the selected feature, or clears it with nil
func (s *Settings) Select(sel *Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = nil
	if sel != nil {
		c := *sel
		c.FirstField = bytes.Clone(sel.FirstField)
		s.selection = &c
	}
	s.publish()
}

// Snapshot returns the current immutable pattern set
func (s *Settings) Snapshot() *PatternSet {
	return s.current.Load()
}
