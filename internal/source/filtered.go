package source

import (
	"sort"
	"strings"

	"github.com/TimelordUK/featview/internal/feature"
)

// FilteredProvider wraps a LineProvider and filters by line type and
// formatted feature text
type FilteredProvider struct {
	source LineProvider

	// Type filter: if set, only show lines of these types
	typeFilter map[feature.LineType]bool

	// Text filter: substring match on the formatted feature
	textFilter string

	// Cached filtered indices (original line numbers that pass filter)
	filteredIndices []int
	dirty           bool
}

// NewFilteredProvider creates a filtered provider
func NewFilteredProvider(source LineProvider) *FilteredProvider {
	return &FilteredProvider{
		source:     source,
		typeFilter: make(map[feature.LineType]bool),
		dirty:      true,
	}
}

// ToggleType toggles a line type in the filter
func (f *FilteredProvider) ToggleType(t feature.LineType) {
	if f.typeFilter[t] {
		delete(f.typeFilter, t)
	} else {
		f.typeFilter[t] = true
	}
	f.dirty = true
}

// SetNavigableOnly shows only lines that address media
func (f *FilteredProvider) SetNavigableOnly() {
	f.typeFilter = map[feature.LineType]bool{
		feature.TypeAddress: true,
		feature.TypePath:    true,
		feature.TypeFile:    true,
	}
	f.dirty = true
}

// ClearFilter removes all type filters
func (f *FilteredProvider) ClearFilter() {
	f.typeFilter = make(map[feature.LineType]bool)
	f.dirty = true
}

// SetTextFilter sets the text substring filter
func (f *FilteredProvider) SetTextFilter(text string) {
	f.textFilter = text
	f.dirty = true
}

// TextFilter returns the current text filter
func (f *FilteredProvider) TextFilter() string {
	return f.textFilter
}

// IsFiltered returns true if any filter is active
func (f *FilteredProvider) IsFiltered() bool {
	return len(f.typeFilter) > 0 || f.textFilter != ""
}

// rebuildIndex rebuilds the filtered index if dirty
func (f *FilteredProvider) rebuildIndex() {
	if !f.dirty {
		return
	}
	f.dirty = false
	f.filteredIndices = nil

	if !f.IsFiltered() {
		return
	}

	total := f.source.LineCount()
	for i := 0; i < total; i++ {
		line, err := f.source.GetLine(i)
		if err != nil {
			continue
		}
		if len(f.typeFilter) > 0 && !f.typeFilter[line.Type] {
			continue
		}
		if f.textFilter != "" && !strings.Contains(line.FormattedFeature(), f.textFilter) {
			continue
		}
		f.filteredIndices = append(f.filteredIndices, i)
	}
}

// LineCount returns total number of filtered lines
func (f *FilteredProvider) LineCount() int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.LineCount()
	}
	return len(f.filteredIndices)
}

// GetLine returns line at filtered index
func (f *FilteredProvider) GetLine(index int) (*feature.Line, error) {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.GetLine(index)
	}
	if index < 0 || index >= len(f.filteredIndices) {
		return nil, nil
	}
	return f.source.GetLine(f.filteredIndices[index])
}

// GetLines returns a range of filtered lines
func (f *FilteredProvider) GetLines(start, count int) ([]*feature.Line, error) {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.GetLines(start, count)
	}

	var lines []*feature.Line
	for i := start; i < start+count && i < len(f.filteredIndices); i++ {
		line, err := f.GetLine(i)
		if err != nil {
			return lines, err
		}
		if line != nil {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// OriginalLineNumber returns the original line number for a filtered index
func (f *FilteredProvider) OriginalLineNumber(filteredIndex int) int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return filteredIndex
	}
	if filteredIndex < 0 || filteredIndex >= len(f.filteredIndices) {
		return -1
	}
	return f.filteredIndices[filteredIndex]
}

// FilteredIndexFor returns the filtered index of an original line, or
// the next visible line after it, or -1
func (f *FilteredProvider) FilteredIndexFor(original int) int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return original
	}
	i := sort.SearchInts(f.filteredIndices, original)
	if i == len(f.filteredIndices) {
		return -1
	}
	return i
}
