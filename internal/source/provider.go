package source

import "github.com/TimelordUK/featview/internal/feature"

// LineProvider is the core abstraction for accessing feature lines
// The viewport only interacts with this interface
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLine returns line at index (0-based)
	GetLine(index int) (*feature.Line, error)

	// GetLines returns a range of lines efficiently
	GetLines(start, count int) ([]*feature.Line, error)
}
