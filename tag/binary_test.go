package tag

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleTree() *Node {
	root := NewCompound()
	root.Put("byte", FromByte(-3))
	root.Put("short", FromShort(-1234))
	root.Put("int", FromInt(math.MinInt32))
	root.Put("long", FromLong(math.MaxInt64))
	root.Put("float", FromFloat(1.5))
	root.Put("double", FromDouble(-0.25))
	root.Put("string", FromString("héllo \x00 wörld 🙂"))
	root.Put("bytes", FromByteArray([]byte{0, 1, 255}))
	root.Put("ints", FromIntArray([]int32{1, -2, 3}))
	root.Put("longs", FromLongArray([]int64{math.MinInt64, 0}))
	list := NewList(EndKind)
	for _, s := range []string{"a", "b"} {
		if err := list.Append(FromString(s)); err != nil {
			panic(err)
		}
	}
	root.Put("list", list)
	root.Put("empty", NewList(EndKind))
	inner := NewCompound()
	inner.Put("x", FromInt(1))
	root.Put("inner", inner)
	nested := NewList(EndKind)
	nested.Append(inner)
	root.Put("compounds", nested)
	return root
}

func TestDialectRoundTrip(t *testing.T) {
	for _, d := range Dialects() {
		t.Run(d.String(), func(t *testing.T) {
			want := sampleTree()
			buf := bytes.NewBuffer(nil)
			if err := d.Encode(buf, want, "level"); err != nil {
				t.Fatal(err)
			}
			got, name, err := d.Decode(buf)
			if err != nil {
				t.Fatal(err)
			}
			if name != "level" {
				t.Errorf("got root name %q, want %q", name, "level")
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBigEndianLayout(t *testing.T) {
	root := NewCompound()
	root.Put("a", FromShort(1))
	d, err := Marshal(BigEndian, root)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		10, 0, 0, // compound, empty name
		2, 0, 1, 'a', 0, 1, // short "a" = 1
		0, // end
	}
	if !bytes.Equal(d, want) {
		t.Errorf("got % x, want % x", d, want)
	}
}

func TestNetworkVarints(t *testing.T) {
	root := NewCompound()
	root.Put("i", FromInt(-1))
	d, err := Marshal(NetworkLittleEndian, root)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		10, 0, // compound, uvarint name length 0
		3, 1, 'i', 1, // int "i" = zigzag(-1)
		0,
	}
	if !bytes.Equal(d, want) {
		t.Errorf("got % x, want % x", d, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unknown root kind", []byte{42, 0, 0}, ErrUnknownKind},
		{"unknown field kind", []byte{10, 0, 0, 99, 0, 0}, ErrUnknownKind},
		{"end root", []byte{0}, ErrRoot},
		{"truncated", []byte{10, 0, 0, 3, 0, 1, 'a', 0}, io.ErrUnexpectedEOF},
		{"missing end", []byte{10, 0, 0}, io.ErrUnexpectedEOF},
		{"negative length", []byte{10, 0, 0, 7, 0, 1, 'b', 0xff, 0xff, 0xff, 0xff, 0}, ErrLength},
		{"end list with elements", []byte{10, 0, 0, 9, 0, 1, 'l', 0, 0, 0, 0, 2, 0}, ErrListKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(BigEndian, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeHugeLengthDoesNotPreallocate(t *testing.T) {
	// a byte array claiming 2GiB followed by nothing
	data := []byte{10, 0, 0, 7, 0, 1, 'b', 0x7f, 0xff, 0xff, 0xff}
	_, err := Unmarshal(BigEndian, data)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("got %v, want unexpected EOF", err)
	}
}

func TestDepthLimit(t *testing.T) {
	root := NewCompound()
	cur := root
	for range MaxDepth + 1 {
		next := NewCompound()
		cur.Put("n", next)
		cur = next
	}
	if _, err := Marshal(BigEndian, root); !errors.Is(err, ErrDepth) {
		t.Fatalf("encode: got %v, want ErrDepth", err)
	}

	buf := bytes.NewBuffer([]byte{10, 0, 0})
	for range MaxDepth + 1 {
		buf.Write([]byte{10, 0, 1, 'n'})
	}
	if _, err := Unmarshal(BigEndian, buf.Bytes()); !errors.Is(err, ErrDepth) {
		t.Fatalf("decode: got %v, want ErrDepth", err)
	}
}

func TestEncodeMixedList(t *testing.T) {
	l := &Node{Kind: ListKind, Values: []*Node{FromInt(1), FromString("x")}}
	root := NewCompound()
	root.Put("l", l)
	if _, err := Marshal(LittleEndian, root); !errors.Is(err, ErrListKind) {
		t.Fatalf("got %v, want ErrListKind", err)
	}
}

func TestEncodeLongString(t *testing.T) {
	root := NewCompound()
	root.Put("s", FromString(string(make([]byte, math.MaxUint16+1))))
	if _, err := Marshal(LittleEndian, root); !errors.Is(err, ErrLength) {
		t.Fatalf("got %v, want ErrLength", err)
	}
	if _, err := Marshal(NetworkLittleEndian, root); err != nil {
		t.Fatalf("varint lengths should fit: %v", err)
	}
}

func TestCheckString(t *testing.T) {
	long := strings.Repeat("x", math.MaxUint16)
	tests := []struct {
		name string
		d    Dialect
		s    string
		want error
	}{
		{"fits", BigEndian, long, nil},
		{"too long", LittleEndian, long + "x", ErrLength},
		{"varint long", NetworkLittleEndian, long + "x", nil},
		// each NUL takes two bytes in modified UTF-8
		{"nul grows", BigEndian, long[2:] + "\x00\x00", ErrLength},
		{"invalid utf8", BigEndian, "a\xffb", ErrString},
		{"invalid utf8 raw", LittleEndian, "a\xffb", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckString(tt.d, tt.s)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidUTF8(t *testing.T) {
	root := NewCompound()
	root.Put("s", FromString("a\xffb"))
	if _, err := Marshal(BigEndian, root); !errors.Is(err, ErrString) {
		t.Fatalf("got %v, want ErrString", err)
	}
	d, err := Marshal(LittleEndian, root)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(LittleEndian, d)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.Get("s").String; s != "a\xffb" {
		t.Errorf("got %q", s)
	}
}

func TestParseDialect(t *testing.T) {
	for _, d := range Dialects() {
		got, err := ParseDialect(d.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != d {
			t.Errorf("ParseDialect(%q) = %v", d.String(), got)
		}
	}
	if _, err := ParseDialect("xml"); !errors.Is(err, ErrBadDialect) {
		t.Errorf("got %v, want ErrBadDialect", err)
	}
}
