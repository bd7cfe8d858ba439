package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TimelordUK/featview/internal/source"
	"github.com/TimelordUK/featview/pkg/forensicpath"
)

// Info describes one exported feature range
type Info struct {
	SourcePath string // feature file the lines came from
	OutputPath string
	StartLine  int // first line, inclusive
	EndLine    int // last line, exclusive
	Filter     string
	UseHex     bool
}

// Exporter writes ranges of feature lines to text files
type Exporter struct {
	outDir string
}

// NewExporter creates an exporter writing to the temp directory
func NewExporter() *Exporter {
	return &Exporter{
		outDir: os.TempDir(),
	}
}

// NewExporterIn creates an exporter writing to dir
func NewExporterIn(dir string) *Exporter {
	return &Exporter{outDir: dir}
}

// Range selects the lines to export and how to write them
type Range struct {
	StartLine int // inclusive
	EndLine   int // exclusive
	Filter    string
	UseHex    bool
	OutPath   string // generated in the output directory when empty
}

// ExportRange writes a range of provider's lines to a text file. Each
// line is the printable path, a tab, then the formatted feature. A
// header names the feature file, any filter in force and the first line.
// An empty range writes only the header.
func (e *Exporter) ExportRange(provider source.LineProvider, sourcePath string, r Range) (*Info, error) {
	startLine, endLine := r.StartLine, r.EndLine
	filter, useHex, outPath := r.Filter, r.UseHex, r.OutPath
	if startLine < 0 {
		startLine = 0
	}
	if endLine > provider.LineCount() {
		endLine = provider.LineCount()
	}
	if startLine > endLine {
		return nil, fmt.Errorf("invalid range: %d-%d", startLine, endLine)
	}

	if outPath == "" {
		baseName := filepath.Base(sourcePath)
		outPath = filepath.Join(e.outDir, fmt.Sprintf("featview-export-%d-%d-%s", startLine, endLine, baseName))
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)
	fmt.Fprintf(w, "# Feature file: %s\n", sourcePath)
	if filter != "" {
		fmt.Fprintf(w, "# Filter: %s\n", filter)
	}
	if startLine == endLine {
		fmt.Fprintln(w, "# Lines: none")
	} else {
		fmt.Fprintf(w, "# Lines: %d-%d\n", startLine+1, endLine)
		first, err := provider.GetLine(startLine)
		if err == nil && first != nil {
			fmt.Fprintf(w, "# From: %s\n", first.Summary())
		}
	}

	for i := startLine; i < endLine; i++ {
		line, err := provider.GetLine(i)
		if err != nil {
			os.Remove(outPath)
			return nil, fmt.Errorf("failed to read line %d: %w", i, err)
		}
		if line == nil {
			continue
		}

		path := line.FirstField
		if line.Navigable() {
			path = forensicpath.PrintablePath(line.Path(), useHex)
		}
		if line.Filename != "" {
			path = line.Filename + " " + path
		}
		fmt.Fprintf(w, "%s\t%s\n", path, line.FormattedFeature())
	}

	if err := w.Flush(); err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &Info{
		SourcePath: sourcePath,
		OutputPath: outPath,
		StartLine:  startLine,
		EndLine:    endLine,
		Filter:     filter,
		UseHex:     useHex,
	}, nil
}
