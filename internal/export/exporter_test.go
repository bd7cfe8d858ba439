package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/featview/internal/source"
)

func newSource(t *testing.T) *source.FeatureSource {
	t.Helper()
	marker := string([]byte{0xf4, 0x80, 0x80, 0x9c, '-'})
	content := "4096\tfoo@example.com\tctx\n" +
		"4096-GZIP-255\tbar@example.com\tctx\n" +
		"n=2\tfoo@example.com\n" +
		"a.zip" + marker + "16\tbaz@example.com\tctx\n"

	path := filepath.Join(t.TempDir(), "email.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src, err := source.NewFeatureSource(context.Background(), path, source.ScanOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func TestExportRange(t *testing.T) {
	src := newSource(t)
	e := NewExporterIn(t.TempDir())

	info, err := e.ExportRange(src, src.Path(), Range{StartLine: 0, EndLine: 10, UseHex: true, Filter: "example"})
	require.NoError(t, err)
	assert.Equal(t, 4, info.EndLine)

	data, err := os.ReadFile(info.OutputPath)
	require.NoError(t, err)

	want := "# Feature file: " + src.Path() + "\n" +
		"# Filter: example\n" +
		"# Lines: 1-4\n" +
		"# From: 4096, foo@example.com\n" +
		"1000\tfoo@example.com\n" +
		"1000-GZIP-ff\tbar@example.com\n" +
		"n=2\tfoo@example.com\n" +
		"a.zip 10\tbaz@example.com\n"
	assert.Equal(t, want, string(data))
}

func TestExportRange_ExplicitPath(t *testing.T) {
	src := newSource(t)
	out := filepath.Join(t.TempDir(), "out.txt")

	info, err := NewExporter().ExportRange(src, src.Path(), Range{StartLine: 1, EndLine: 2, OutPath: out})
	require.NoError(t, err)
	assert.Equal(t, out, info.OutputPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "4096-GZIP-255\tbar@example.com\n")
	assert.NotContains(t, string(data), "foo@")
}

func TestExportRange_Invalid(t *testing.T) {
	src := newSource(t)
	_, err := NewExporter().ExportRange(src, src.Path(), Range{StartLine: 3, EndLine: 2})
	assert.ErrorContains(t, err, "invalid range")
}

func TestExportRange_EmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email.txt")
	require.NoError(t, os.WriteFile(path, []byte("4096\tfoo@example.com\n"), 0o644))

	src, err := source.NewFeatureSource(context.Background(), path, source.ScanOptions{Filter: []byte("nomatch")})
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, 0, src.LineCount())

	out := filepath.Join(t.TempDir(), "out.txt")
	info, err := NewExporter().ExportRange(src, path, Range{EndLine: src.LineCount(), Filter: "nomatch", OutPath: out})
	require.NoError(t, err)
	assert.Equal(t, 0, info.EndLine)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "# Feature file: " + path + "\n" +
		"# Filter: nomatch\n" +
		"# Lines: none\n"
	assert.Equal(t, want, string(data))
}
