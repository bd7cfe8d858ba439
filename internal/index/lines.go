package index

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// LinesPerGroup is the number of lines held by one group
const LinesPerGroup = 0x10000

// ErrOutOfRange is returned for a line number outside [0, Len())
var ErrOutOfRange = errors.New("line index out of range")

// group holds the positions of LinesPerGroup consecutive lines
type group struct {
	offsets [LinesPerGroup]uint64
	lengths [LinesPerGroup]uint32
}

// LineIndex maps line numbers to their byte position in a feature file.
// Lines are stored in fixed-size groups so that tens of millions of lines
// cost two flat arrays per group instead of one object per line.
//
// A LineIndex has one writer while it is built. Once Freeze is called
// it is read-only and safe for concurrent use.
type LineIndex struct {
	groups []*group
	total  int
	widest uint32
	frozen atomic.Bool
}

// NewLineIndex creates an empty index
func NewLineIndex() *LineIndex {
	return &LineIndex{}
}

// Append records the next line's start byte and length
func (idx *LineIndex) Append(startByte uint64, length uint32) {
	if idx.frozen.Load() {
		panic("index: append to frozen LineIndex")
	}

	g, pos := idx.total/LinesPerGroup, idx.total%LinesPerGroup
	if pos == 0 {
		idx.groups = append(idx.groups, new(group))
	}
	idx.groups[g].offsets[pos] = startByte
	idx.groups[g].lengths[pos] = length
	idx.total++

	if length > idx.widest {
		idx.widest = length
	}
}

// Freeze ends the build. Readers on other goroutines observe every
// line appended before Freeze.
func (idx *LineIndex) Freeze() {
	idx.frozen.Store(true)
}

// Get returns the start byte and length of a line (0-based)
func (idx *LineIndex) Get(line int) (uint64, uint32, error) {
	if line < 0 || line >= idx.total {
		return 0, 0, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, line, idx.total)
	}

	g := idx.groups[line/LinesPerGroup]
	pos := line % LinesPerGroup
	return g.offsets[pos], g.lengths[pos], nil
}

// Len returns the number of lines appended
func (idx *LineIndex) Len() int {
	return idx.total
}

// WidestLineLength returns the longest line length seen, in bytes
func (idx *LineIndex) WidestLineLength() int {
	return int(idx.widest)
}
