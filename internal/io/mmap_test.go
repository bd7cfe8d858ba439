package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedFile_ReadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email.txt")
	require.NoError(t, os.WriteFile(path, []byte("0\ta\n12\tbb\n"), 0o644))

	m, err := OpenMapped(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, int64(10), m.Size())
	assert.Equal(t, path, m.Path())
	assert.Equal(t, byte('1'), m.At(4))

	line, err := m.ReadLine(4, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("12\tbb"), line)

	empty, err := m.ReadLine(3, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	clipped, err := m.ReadRange(8, 100)
	require.NoError(t, err)
	assert.Equal(t, []byte("b\n"), clipped)
}

func TestOpenMapped_Missing(t *testing.T) {
	_, err := OpenMapped(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
