package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/TimelordUK/featview/pkg/featureformat"
)

// ContextRenderer colors XML context fields such as EXIF and PE headers
type ContextRenderer struct {
	lexerName   string
	syntaxTheme string
}

// NewContextRenderer creates a context renderer using a chroma style
func NewContextRenderer(syntaxTheme string) *ContextRenderer {
	if syntaxTheme == "" {
		syntaxTheme = "monokai"
	}
	return &ContextRenderer{
		lexerName:   "xml",
		syntaxTheme: syntaxTheme,
	}
}

// Render applies syntax highlighting to a context field
func (r *ContextRenderer) Render(context string) string {
	if context == "" {
		return ""
	}

	var buf bytes.Buffer
	err := quick.Highlight(&buf, context, r.lexerName, "terminal16m", r.syntaxTheme)
	if err != nil {
		return context
	}

	// Remove any newlines that quick.Highlight adds
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")
	return highlighted
}

// IsSyntaxHighlightable returns true if the feature file carries XML context
func IsSyntaxHighlightable(featureFile string) bool {
	return featureformat.IsXMLContext(featureFile)
}
