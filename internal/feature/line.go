package feature

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/TimelordUK/featview/internal/highlight"
	"github.com/TimelordUK/featview/pkg/featureformat"
	"github.com/TimelordUK/featview/pkg/forensicpath"
)

// LineType classifies a feature line by its first field
type LineType int

const (
	TypeIndeterminate LineType = iota
	TypeAddress
	TypePath
	TypeHistogram
	TypeFile
)

func (t LineType) String() string {
	switch t {
	case TypeAddress:
		return "Address"
	case TypePath:
		return "Path"
	case TypeHistogram:
		return "Histogram"
	case TypeFile:
		return "Address or Path in a File"
	default:
		return "Indeterminate"
	}
}

// Line is one parsed record of a feature file
type Line struct {
	Number    int    // 0-based line number in the index
	StartByte uint64 // position in the feature file
	NumBytes  uint32

	Type       LineType
	RawFirst   []byte // first field as read, file marker included
	FirstField string // first field with any filename stripped
	Feature    []byte // escaped feature field
	Context    []byte // escaped context field
	Filename   string // embedded filename for TypeFile lines

	head        []byte // first field and its tab
	featureFile string
}

// Parse splits raw line bytes into fields and classifies the line.
// featureFile names the file the line came from and selects the text
// formatter.
func Parse(featureFile string, number int, startByte uint64, raw []byte) *Line {
	line := &Line{
		Number:      number,
		StartByte:   startByte,
		NumBytes:    uint32(len(raw)),
		featureFile: featureFile,
	}

	// zip and friends may turn \n into \r\n
	raw = bytes.TrimSuffix(raw, []byte{'\r'})

	first, rest, hasTab := bytes.Cut(raw, []byte{'\t'})
	line.RawFirst = bytes.Clone(first)
	line.head = line.RawFirst
	if hasTab {
		line.head = bytes.Clone(raw[:len(first)+1])
	}

	// classify on the first field only; feature and context may hold anything
	switch {
	case forensicpath.HasFilename(first):
		line.Type = TypeFile
	case forensicpath.IsAddress(line.head):
		line.Type = TypeAddress
	case forensicpath.IsPath(line.head):
		line.Type = TypePath
	case forensicpath.IsHistogram(line.head):
		line.Type = TypeHistogram
	default:
		log.Debug().Str("file", featureFile).Int("line", number).Msg("unrecognized feature line")
	}

	if line.Type == TypeFile {
		line.Filename = forensicpath.Filename(first)
		line.FirstField = forensicpath.PathWithoutFilename(first)
	} else {
		line.FirstField = string(first)
	}

	if !hasTab {
		log.Debug().Str("file", featureFile).Int("line", number).Msg("malformed feature line")
		line.Feature = bytes.Clone(raw)
		return line
	}

	feat, ctx, _ := bytes.Cut(rest, []byte{'\t'})
	line.Feature = bytes.Clone(feat)
	line.Context = bytes.Clone(ctx)
	return line
}

// Path returns the forensic path of an addressable line, or ""
func (l *Line) Path() string {
	switch l.Type {
	case TypeAddress, TypePath, TypeFile:
		return l.FirstField
	}
	return ""
}

// Offset returns the byte offset named by the line's path
func (l *Line) Offset() int64 {
	return forensicpath.Offset(l.Path())
}

// Navigable reports whether the line addresses a position in the media
func (l *Line) Navigable() bool {
	return l.Type != TypeHistogram && l.Path() != ""
}

// FormattedFirstField renders the first field for display. Paths show
// their offset then the path up to that offset in parentheses.
func (l *Line) FormattedFirstField(useHex bool) string {
	switch l.Type {
	case TypeAddress:
		return forensicpath.PrintablePath(l.FirstField, useHex)
	case TypePath:
		return formatOffset(l.Offset(), useHex) + "(" + forensicpath.PrintablePath(forensicpath.Prefix(l.FirstField), useHex) + ")"
	case TypeFile:
		return l.Filename + " " + forensicpath.PrintablePath(l.FirstField, useHex)
	case TypeHistogram:
		return l.FirstField
	}
	return ""
}

func formatOffset(offset int64, useHex bool) string {
	if useHex {
		return strconv.FormatInt(offset, 16)
	}
	return strconv.FormatInt(offset, 10)
}

// FormattedFeature returns the feature text formatted for its file type
func (l *Line) FormattedFeature() string {
	return featureformat.Format(l.featureFile, l.Feature, l.Context)
}

// Selection describes the line for selection-driven highlighting
func (l *Line) Selection() *highlight.Selection {
	return &highlight.Selection{
		FirstField: l.head,
		Path:       l.Path(),
		Text:       l.FormattedFeature(),
	}
}

// Summary returns a one-line description, cut to 100 characters
func (l *Line) Summary() string {
	s := fmt.Sprintf("%s, %s", l.FirstField, l.FormattedFeature())
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100]) + "…"
	}
	return s
}
