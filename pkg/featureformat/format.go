package featureformat

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/TimelordUK/featview/pkg/escape"
)

// MaxCharWidth bounds formatted text; longer text is cut and ends in an ellipsis
const MaxCharWidth = 1000

// Formatter turns the feature and context fields of a line into display text
type Formatter func(feature, context []byte) string

// formatters are keyed by feature file name
var formatters = map[string]Formatter{
	"elf.txt":   unescapedContext,
	"ether.txt": withContext,
	"exif.txt":  exifContext,
	"gps.txt":   rawContext,
	"ip.txt":    withContext,
	"winpe.txt": unescapedContext,
}

// ForFile picks the formatter for a feature file
func ForFile(featureFile string) Formatter {
	name := filepath.Base(featureFile)
	if f, ok := formatters[name]; ok {
		return f
	}
	if strings.Contains(name, "identified") {
		return withContext
	}
	return generic
}

// Format formats a feature with the formatter for featureFile and
// truncates the result to MaxCharWidth characters.
func Format(featureFile string, feature, context []byte) string {
	return Truncate(ForFile(featureFile)(feature, context))
}

// Truncate cuts s to MaxCharWidth characters plus an ellipsis
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxCharWidth {
		return s
	}
	return string([]rune(s)[:MaxCharWidth]) + "…"
}

// IsXMLContext reports whether the context field of featureFile holds XML
func IsXMLContext(featureFile string) bool {
	switch filepath.Base(featureFile) {
	case "elf.txt", "exif.txt", "winpe.txt":
		return true
	}
	return false
}

func generic(feature, _ []byte) string {
	b := feature
	if escape.LooksLikeUTF16(b) {
		b = escape.StripNulls(b)
	}
	return string(escape.UnescapeEscape(b))
}

func withContext(feature, context []byte) string {
	return string(feature) + " " + string(context)
}

func rawContext(_, context []byte) string {
	return string(context)
}

func unescapedContext(_, context []byte) string {
	return string(escape.UnescapeEscape(context))
}

// exifContext lists the child elements of the EXIF XML context as
// key=value pairs, keys shortened to the part after the last '.'.
func exifContext(_, context []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(escape.UnescapeEscape(context)))

	var (
		pairs []string
		depth int
		key   string
		value strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn().Err(err).Bytes("context", context).Msg("exif parse failed")
				return "<EXIF parser failed, please see log>"
			}
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				key = t.Name.Local
				value.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				value.Write(t)
			}
		case xml.EndElement:
			if depth == 2 && value.Len() > 0 {
				if i := strings.LastIndexByte(key, '.'); i > 0 {
					key = key[i+1:]
				}
				pairs = append(pairs, key+"="+value.String())
			}
			depth--
		}
	}
	return strings.Join(pairs, ", ")
}
