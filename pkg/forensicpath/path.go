package forensicpath

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Delimiter separates the addressing frames of a forensic path
const Delimiter = "-"

// fileMarker follows an embedded filename in a raw first field.
// The first four bytes are the UTF-8 encoding of U+10001C.
var fileMarker = []byte{0xf4, 0x80, 0x80, 0x9c, '-'}

// Offset returns the byte offset named by the last segment of path.
// An empty path is offset 0. A final segment that is not a base-10
// integer is logged and treated as 0.
func Offset(path string) int64 {
	if path == "" {
		return 0
	}

	last := path[strings.LastIndex(path, Delimiter)+1:]
	offset, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		log.Warn().Str("path", path).Msg("malformed forensic path")
		return 0
	}
	return offset
}

// AdjustedPath replaces the last segment of path with offset
func AdjustedPath(path string, offset int64) string {
	front := path[:strings.LastIndex(path, Delimiter)+1]
	return front + strconv.FormatInt(offset, 10)
}

// Prefix returns path without its last segment, or "" for a single
// segment
func Prefix(path string) string {
	i := strings.LastIndex(path, Delimiter)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// AlignedPath backs the offset of path up to a pageSize boundary
func AlignedPath(path string, pageSize int64) string {
	if pageSize <= 0 {
		return path
	}
	offset := Offset(path)
	return AdjustedPath(path, offset-offset%pageSize)
}

// markerIndex returns the position of the first file marker or -1
func markerIndex(raw []byte) int {
	return bytes.Index(raw, fileMarker)
}

// HasFilename reports whether raw carries an embedded filename
func HasFilename(raw []byte) bool {
	return markerIndex(raw) >= 0
}

// Filename returns the embedded filename, or "" when there is none
func Filename(raw []byte) string {
	i := markerIndex(raw)
	if i < 0 {
		return ""
	}
	return string(raw[:i])
}

// PathWithoutFilename returns the forensic path that follows the file
// marker, or all of raw when no marker is present.
func PathWithoutFilename(raw []byte) string {
	i := markerIndex(raw)
	if i < 0 {
		return string(raw)
	}
	return string(raw[i+len(fileMarker):])
}

// PrintablePath renders path for display. With useHex every numeric
// segment is shown in lowercase hexadecimal; other segments such as
// decoder names are left alone.
func PrintablePath(path string, useHex bool) string {
	if !useHex {
		return path
	}

	parts := strings.Split(path, Delimiter)
	for i, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		parts[i] = strconv.FormatInt(n, 16)
	}
	return strings.Join(parts, Delimiter)
}

// leadingDigits returns how many ASCII digits start b
func leadingDigits(b []byte) int {
	n := 0
	for n < len(b) && b[n] >= '0' && b[n] <= '9' {
		n++
	}
	return n
}

// IsHistogram reports whether raw starts like a histogram record: "n=",
// at least one digit, then a tab.
func IsHistogram(raw []byte) bool {
	if len(raw) < 4 || raw[0] != 'n' || raw[1] != '=' {
		return false
	}
	n := leadingDigits(raw[2:])
	return n > 0 && 2+n < len(raw) && raw[2+n] == '\t'
}

// IsAddress reports whether raw starts with a plain decimal offset
// followed by a tab.
func IsAddress(raw []byte) bool {
	n := leadingDigits(raw)
	return n > 0 && n < len(raw) && raw[n] == '\t'
}

// IsPath reports whether raw starts with a multi-frame forensic path:
// digits, a '-', then anything up to a tab.
func IsPath(raw []byte) bool {
	n := leadingDigits(raw)
	if n == 0 || n >= len(raw) || raw[n] != '-' {
		return false
	}
	return bytes.IndexByte(raw[n+1:], '\t') >= 0
}
