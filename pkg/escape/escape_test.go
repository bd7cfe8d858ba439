package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{name: "plain", in: "cat", want: []byte("cat")},
		{name: "hex lower", in: `a\x0ab`, want: []byte("a\nb")},
		{name: "hex upper", in: `\x5C`, want: []byte(`\`)},
		{name: "octal", in: `\134x`, want: []byte(`\x`)},
		{name: "high byte", in: `\xff`, want: []byte{0xff}},
		{name: "bad hex", in: `\xzz1`, want: []byte(`\xzz1`)},
		{name: "bad octal", in: `\489`, want: []byte(`\489`)},
		{name: "truncated", in: `ab\x4`, want: []byte(`ab\x4`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape([]byte(tt.in)))
		})
	}
}

func TestUnescapeEscape(t *testing.T) {
	assert.Equal(t, []byte(`C:\dir\\x00`), UnescapeEscape([]byte(`C:\x5Cdir\134\x00`)))
	assert.Equal(t, []byte(`a\b`), UnescapeEscape([]byte(`a\x5cb`)))
}

func TestLooksLikeUTF16(t *testing.T) {
	assert.True(t, LooksLikeUTF16([]byte(`h\x00e\x00l\x00l\x00o\x00`)))
	assert.True(t, LooksLikeUTF16([]byte(`\x00h\x00e\x00y`)))
	assert.False(t, LooksLikeUTF16([]byte("hello")))
	assert.False(t, LooksLikeUTF16([]byte(`h\x00`)))
}

func TestStripNulls(t *testing.T) {
	assert.Equal(t, []byte("hello"), StripNulls([]byte(`h\x00e\000llo`)))
}

func TestUTF16Basic(t *testing.T) {
	wide := UTF8To16Basic([]byte("abc"))
	assert.Equal(t, []byte(`a\x00b\x00c`), wide)
	assert.Equal(t, []byte("abc"), UTF16To8Basic(wide))
	assert.Equal(t, []byte("a"), UTF8To16Basic([]byte("a")))
}

func TestToLower(t *testing.T) {
	assert.Equal(t, []byte("abc-\xc4z"), ToLower([]byte("AbC-\xc4Z")))
}
