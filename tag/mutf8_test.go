package tag

import (
	"bytes"
	"testing"
)

func TestMUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"ascii", "abc", []byte("abc")},
		{"nul", "a\x00b", []byte{'a', 0xC0, 0x80, 'b'}},
		{"two byte", "é", []byte{0xC3, 0xA9}},
		{"three byte", "€", []byte{0xE2, 0x82, 0xAC}},
		{"supplementary", "🙂", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB9, 0x82}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeMUTF8(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode got % x, want % x", got, tt.want)
			}
			s, err := decodeMUTF8(got)
			if err != nil {
				t.Fatal(err)
			}
			if s != tt.in {
				t.Errorf("decode got %q, want %q", s, tt.in)
			}
		})
	}
}

func TestMUTF8Invalid(t *testing.T) {
	for _, b := range [][]byte{{0}, {0xC3}, {0xE2, 0x82}, {0xFF}, {0xC3, 0x41}} {
		if _, err := decodeMUTF8(b); err == nil {
			t.Errorf("decode % x: expected error", b)
		}
	}
}
