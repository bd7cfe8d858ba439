package source

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TimelordUK/featview/internal/feature"
	"github.com/TimelordUK/featview/internal/index"
	fvio "github.com/TimelordUK/featview/internal/io"
)

// DefaultCacheLines is the number of parsed lines a FeatureSource keeps
const DefaultCacheLines = 4096

// FeatureSource provides lines from a single feature file
type FeatureSource struct {
	file      *fvio.MappedFile
	lineIndex *index.LineIndex
	path      string
	cache     *lru.Cache[int, *feature.Line]
}

// NewFeatureSource maps and indexes a feature file
func NewFeatureSource(ctx context.Context, path string, opts ScanOptions) (*FeatureSource, error) {
	file, err := fvio.OpenMapped(path)
	if err != nil {
		return nil, err
	}

	lineIndex, err := Scan(ctx, file, opts)
	if err != nil {
		file.Close()
		return nil, err
	}

	cache, err := lru.New[int, *feature.Line](DefaultCacheLines)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("line cache: %w", err)
	}

	return &FeatureSource{
		file:      file,
		lineIndex: lineIndex,
		path:      path,
		cache:     cache,
	}, nil
}

// LineCount returns total number of indexed lines
func (s *FeatureSource) LineCount() int {
	return s.lineIndex.Len()
}

// WidestLineLength returns the byte length of the longest line
func (s *FeatureSource) WidestLineLength() int {
	return s.lineIndex.WidestLineLength()
}

// GetLine returns the parsed line at index
func (s *FeatureSource) GetLine(idx int) (*feature.Line, error) {
	if line, ok := s.cache.Get(idx); ok {
		return line, nil
	}

	start, length, err := s.lineIndex.Get(idx)
	if err != nil {
		return nil, err
	}
	raw, err := s.file.ReadLine(start, length)
	if err != nil {
		return nil, err
	}

	line := feature.Parse(s.path, idx, start, raw)
	s.cache.Add(idx, line)
	return line, nil
}

// GetLines returns up to count lines from start
func (s *FeatureSource) GetLines(start, count int) ([]*feature.Line, error) {
	if start < 0 {
		start = 0
	}
	if start+count > s.LineCount() {
		count = s.LineCount() - start
	}
	if count <= 0 {
		return nil, nil
	}

	lines := make([]*feature.Line, count)
	for i := 0; i < count; i++ {
		line, err := s.GetLine(start + i)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// Close closes the feature source
func (s *FeatureSource) Close() error {
	s.cache.Purge()
	return s.file.Close()
}

// Path returns the file path
func (s *FeatureSource) Path() string {
	return s.path
}
