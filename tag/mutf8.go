package tag

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

var errMUTF8 = errors.New("invalid modified UTF-8")

// encodeMUTF8 writes s in the JVM's modified UTF-8: NUL takes two bytes and
// runes outside the BMP are written as a surrogate pair of 3 byte sequences.
// s must be valid UTF-8; the encoder checks that first, since ranging over
// invalid bytes would turn them into U+FFFD.
func encodeMUTF8(s string) []byte {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(s)
	}
	res := make([]byte, 0, len(s)+len(s)/2)
	for _, r := range s {
		switch {
		case r == 0:
			res = append(res, 0xC0, 0x80)
		case r < utf8.RuneSelf:
			res = append(res, byte(r))
		case r < 0x800:
			res = append(res, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			res = append(res, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
		default:
			hi, lo := utf16.EncodeRune(r)
			for _, c := range []rune{hi, lo} {
				res = append(res, 0xE0|byte(c>>12), 0x80|byte((c>>6)&0x3F), 0x80|byte(c&0x3F))
			}
		}
	}
	return res
}

// mutf8Len is len(encodeMUTF8(s)) for valid UTF-8 s.
func mutf8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < utf8.RuneSelf:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

func decodeMUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0:
			return "", errMUTF8
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", errMUTF8
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", errMUTF8
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", errMUTF8
		}
	}
	return string(utf16.Decode(units)), nil
}
