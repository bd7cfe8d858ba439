// Package escape converts between the escaped text form used in feature
// files and raw bytes.
//
// Feature files escape non-printable bytes as \xHH or as three-digit
// octal \ooo. A literal backslash is written \x5C or \134.
package escape

import "bytes"

var escNull = []byte(`\x00`)

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func isOctal(b byte) bool {
	return b >= '0' && b <= '7'
}

// Unescape replaces every \xHH and \ooo code in b with the byte it names.
// Malformed escapes are copied through unchanged.
func Unescape(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if b[i] == '\\' && i+3 < len(b) {
			if b[i+1] == 'x' {
				hi, okHi := hexValue(b[i+2])
				lo, okLo := hexValue(b[i+3])
				if okHi && okLo {
					out = append(out, hi<<4|lo)
					i += 4
					continue
				}
			} else if b[i+1] >= '0' && b[i+1] <= '3' && isOctal(b[i+2]) && isOctal(b[i+3]) {
				out = append(out, (b[i+1]-'0')<<6|(b[i+2]-'0')<<3|(b[i+3]-'0'))
				i += 4
				continue
			}
		}
		out = append(out, b[i])
		i++
	}
	return out
}

// UnescapeEscape turns escaped backslashes (\x5C, \x5c, \134) back into
// '\' and leaves every other escape code in place.
func UnescapeEscape(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if b[i] == '\\' && i+3 < len(b) {
			code := b[i+1 : i+4]
			if bytes.Equal(code, []byte("134")) || bytes.EqualFold(code, []byte("x5c")) {
				out = append(out, '\\')
				i += 4
				continue
			}
		}
		out = append(out, b[i])
		i++
	}
	return out
}

// LooksLikeUTF16 reports whether the unescaped form of b has nulls in
// every other byte, on the even or the odd side only.
func LooksLikeUTF16(b []byte) bool {
	raw := Unescape(b)
	if len(raw) < 2 {
		return false
	}

	var even, odd int
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 {
			even++
		}
		if raw[i+1] == 0 {
			odd++
		}
	}
	return (even > 1 && odd == 0) || (even == 0 && odd > 1)
}

// isEscNull reports whether b starts with \x00 or \000
func isEscNull(b []byte) bool {
	return len(b) >= 4 && b[0] == '\\' &&
		((b[1] == 'x' && b[2] == '0' && b[3] == '0') ||
			(b[1] == '0' && b[2] == '0' && b[3] == '0'))
}

// StripNulls removes escaped null codes from b. It is meant for text that
// LooksLikeUTF16.
func StripNulls(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if isEscNull(b[i:]) {
			i += 4
			continue
		}
		out = append(out, b[i])
		i++
	}
	return out
}

// UTF8To16Basic interleaves an escaped null after every byte but the
// last, a naive little-endian UTF-16 rendering of ASCII text.
func UTF8To16Basic(b []byte) []byte {
	if len(b) < 2 {
		return b
	}
	out := make([]byte, 0, len(b)*5)
	for i := 0; i < len(b)-1; i++ {
		out = append(out, b[i])
		out = append(out, escNull...)
	}
	return append(out, b[len(b)-1])
}

// UTF16To8Basic undoes UTF8To16Basic by dropping escaped nulls
func UTF16To8Basic(b []byte) []byte {
	return StripNulls(b)
}

// ToLower folds ASCII upper case letters in b to lower case
func ToLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
