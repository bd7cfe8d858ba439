package io

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// MappedFile provides memory-mapped read access to a feature file
type MappedFile struct {
	reader *mmap.ReaderAt
	path   string
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	return &MappedFile{
		reader: reader,
		path:   path,
	}, nil
}

// ReadAt reads len(p) bytes at offset
func (m *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	return m.reader.ReadAt(p, off)
}

// At returns the byte at offset
func (m *MappedFile) At(off int64) byte {
	return m.reader.At(int(off))
}

// Size returns the file size
func (m *MappedFile) Size() int64 {
	return int64(m.reader.Len())
}

// Path returns the file path
func (m *MappedFile) Path() string {
	return m.path
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// ReadRange reads bytes from start to end
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.Size() {
		end = m.Size()
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	if _, err := m.reader.ReadAt(buf, start); err != nil {
		return nil, fmt.Errorf("read %s [%d, %d): %w", m.path, start, end, err)
	}
	return buf, nil
}

// ReadLine reads length bytes starting at start, the span a line index
// records for one line.
func (m *MappedFile) ReadLine(start uint64, length uint32) ([]byte, error) {
	return m.ReadRange(int64(start), int64(start)+int64(length))
}
