package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/TimelordUK/featview/internal/index"
	fvio "github.com/TimelordUK/featview/internal/io"
	"github.com/TimelordUK/featview/pkg/escape"
)

const (
	scanBufferSize = 64 * 1024
	cancelCheck    = 4096 // lines between context checks
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ScanOptions controls which lines of a feature file are indexed
type ScanOptions struct {
	// Filter keeps only lines whose feature field contains it, in its
	// UTF-8 or naive UTF-16 form. Escape codes are matched as written.
	Filter    []byte
	MatchCase bool

	// Progress, when set, receives the percentage of the file read
	Progress func(percent int)
}

// lineFilter matches the feature field of a line against both
// encodings of the user filter
type lineFilter struct {
	utf8, utf16 []byte
	matchCase   bool
}

func newLineFilter(opts ScanOptions) *lineFilter {
	if len(opts.Filter) == 0 {
		return nil
	}

	f := opts.Filter
	if !opts.MatchCase {
		f = escape.ToLower(f)
	}

	lf := &lineFilter{matchCase: opts.MatchCase}
	if escape.LooksLikeUTF16(f) {
		lf.utf8, lf.utf16 = escape.UTF16To8Basic(f), f
	} else {
		lf.utf8, lf.utf16 = f, escape.UTF8To16Basic(f)
	}
	return lf
}

func (lf *lineFilter) keep(line []byte) bool {
	_, rest, ok := bytes.Cut(line, []byte{'\t'})
	if !ok {
		return false
	}
	feat, _, _ := bytes.Cut(rest, []byte{'\t'})
	if !lf.matchCase {
		feat = escape.ToLower(feat)
	}
	return bytes.Contains(feat, lf.utf8) || bytes.Contains(feat, lf.utf16)
}

// Scan reads a feature file once and indexes every newline-terminated
// line. Comment lines starting with '#' are skipped, as is a leading
// UTF-8 byte order mark. The returned index is frozen.
func Scan(ctx context.Context, file *fvio.MappedFile, opts ScanOptions) (*index.LineIndex, error) {
	lines := index.NewLineIndex()
	size := file.Size()
	filter := newLineFilter(opts)

	var pos int64
	if size >= 3 && bytes.Equal([]byte{file.At(0), file.At(1), file.At(2)}, utf8BOM) {
		pos = 3
	}

	r := bufio.NewReaderSize(io.NewSectionReader(file, pos, size-pos), scanBufferSize)

	var (
		carry       []byte
		count       int
		lastPercent = -1
	)
	for {
		chunk, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			carry = append(carry, chunk...)
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scan %s: %w", file.Path(), err)
		}
		if len(chunk) == 0 || chunk[len(chunk)-1] != '\n' {
			// a partial last line is still being written
			break
		}

		line := chunk[:len(chunk)-1]
		if len(carry) > 0 {
			carry = append(carry, line...)
			line = carry
		}
		start := pos
		pos += int64(len(line)) + 1
		carry = carry[:0]

		if int64(len(line)) > math.MaxUint32 {
			return nil, fmt.Errorf("scan %s: line at byte %d is too long", file.Path(), start)
		}
		if (len(line) == 0 || line[0] != '#') && (filter == nil || filter.keep(line)) {
			lines.Append(uint64(start), uint32(len(line)))
		}

		count++
		if count%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if opts.Progress != nil && size > 0 {
				if p := int(pos * 100 / size); p != lastPercent {
					lastPercent = p
					opts.Progress(p)
				}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Progress != nil {
		opts.Progress(100)
	}

	lines.Freeze()
	log.Debug().
		Str("file", file.Path()).
		Int("lines", lines.Len()).
		Int("widest", lines.WidestLineLength()).
		Msg("feature file indexed")
	return lines, nil
}
