package featureformat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormat_ByFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		feature string
		context string
		want    string
	}{
		{name: "generic", file: "email.txt", feature: `a\x5Cb`, context: "ctx", want: `a\b`},
		{name: "generic utf16", file: "email.txt", feature: `h\x00i\x00!\x00`, want: "hi!"},
		{name: "ether", file: "ether.txt", feature: "00:11:22:33:44:55", context: "src", want: "00:11:22:33:44:55 src"},
		{name: "ip", file: "/report/ip.txt", feature: "10.0.0.1", context: "struct ip", want: "10.0.0.1 struct ip"},
		{name: "gps", file: "gps.txt", feature: "x", context: "lat=1", want: "lat=1"},
		{name: "identified blocks", file: "identified_blocks.txt", feature: "abc", context: "{}", want: "abc {}"},
		{name: "winpe", file: "winpe.txt", context: `<pe path="C:\x5Cx"/>`, want: `<pe path="C:\x"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.file, []byte(tt.feature), []byte(tt.context)))
		})
	}
}

func TestFormat_EXIF(t *testing.T) {
	ctx := `<exif><ifd0.tiff.Make>Canon</ifd0.tiff.Make><empty/><ifd0.tiff.Model>EOS</ifd0.tiff.Model></exif>`
	assert.Equal(t, "Make=Canon, Model=EOS", Format("exif.txt", nil, []byte(ctx)))

	assert.Equal(t, "<EXIF parser failed, please see log>", Format("exif.txt", nil, []byte("<exif><a>")))
}

func TestTruncate(t *testing.T) {
	short := "abc"
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("é", MaxCharWidth+5)
	got := Truncate(long)
	assert.Equal(t, MaxCharWidth+1, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestIsXMLContext(t *testing.T) {
	assert.True(t, IsXMLContext("/out/exif.txt"))
	assert.False(t, IsXMLContext("email.txt"))
}
