package parse

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tagstore/encode"
	"github.com/signadot/tagstore/storage"
	"github.com/signadot/tagstore/tag"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want *storage.Value
	}{
		{"1b", storage.FromByte(1)},
		{"-128B", storage.FromByte(-128)},
		{"true", storage.FromByte(1)},
		{"FALSE", storage.FromByte(0)},
		{"300s", storage.FromShort(300)},
		{"42", storage.FromInt(42)},
		{"+42", storage.FromInt(42)},
		{"9000000000L", storage.FromLong(9000000000)},
		{"7l", storage.FromLong(7)},
		{"1.5f", storage.FromFloat(1.5)},
		{"2F", storage.FromFloat(2)},
		{"1.5", storage.FromDouble(1.5)},
		{"1e3", storage.FromDouble(1000)},
		{".5d", storage.FromDouble(0.5)},
		{"-Infinityd", storage.FromDouble(math.Inf(-1))},
		{"Infinityf", storage.FromFloat(float32(math.Inf(1)))},
		{`"quoted \"x\"\n"`, storage.FromString("quoted \"x\"\n")},
		{`'single \'q\' "dq"'`, storage.FromString(`single 'q' "dq"`)},
		{"bare_word", storage.FromString("bare_word")},
		{"12abc", storage.FromString("12abc")},
		{"NaN", storage.FromString("NaN")},
		{"[B; 1b, -1b, 2]", storage.FromByteArray([]byte{1, 0xff, 2})},
		{"[I;]", storage.FromIntArray([]int32{})},
		{"[L; 1L, 2]", storage.FromLongArray([]int64{1, 2})},
		{"[I; 1, 2,]", storage.FromIntArray([]int32{1, 2})},
		{"[]", storage.FromList()},
		{"[B]", storage.FromList(storage.FromString("B"))},
		{"[1, 2s, x]", storage.FromList(storage.FromInt(1), storage.FromShort(2), storage.FromString("x"))},
		{"[[I;1], [], [2]]", storage.FromList(
			storage.FromIntArray([]int32{1}),
			storage.FromList(),
			storage.FromList(storage.FromInt(2)),
		)},
		{"  {}  ", storage.FromCompound(storage.New())},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.want.Equal(got) {
				t.Errorf("got %s, want %s", encode.MustString(got), encode.MustString(tt.want))
			}
		})
	}
}

func TestParseCompound(t *testing.T) {
	s, err := Parse([]byte(`{
		name: "Ada",
		id: 7,
		meta: {active: 1b},
		"with space": 'x',
		a.b: 1,
		dup: 1,
		dup: 2,
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.b", "dup", "id", "meta", "name", "with space"}, s.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if got := s.GetString("name", ""); got != "Ada" {
		t.Errorf("name = %q", got)
	}
	if got := s.GetByte("meta.active", 0); got != 1 {
		t.Errorf("meta.active = %d", got)
	}
	if got := s.GetInt("dup", 0); got != 2 {
		t.Errorf("repeated name should keep the last value, got %d", got)
	}
	if _, ok := s.Entry("a.b"); !ok {
		t.Error("dotted name must be one entry")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		is   error
	}{
		{"empty", "", ErrParse},
		{"blank", "  \n", ErrParse},
		{"unclosed compound", "{a: 1", ErrParse},
		{"missing colon", "{a 1}", ErrParse},
		{"missing value", "{a: }", ErrParse},
		{"missing comma", "[1 2]", ErrParse},
		{"trailing", "{} {}", ErrParse},
		{"unterminated", `"abc`, ErrParse},
		{"bad escape", `"\q"`, ErrParse},
		{"newline in string", "\"a\nb\"", ErrParse},
		{"byte range", "128b", ErrRange},
		{"short range", "40000s", ErrRange},
		{"int range", "3000000000", ErrRange},
		{"long range", "9223372036854775808L", ErrRange},
		{"float range", "1e39f", ErrRange},
		{"array range", "[B; 300]", ErrRange},
		{"array element", "[I; x]", ErrParse},
		{"array suffix", "[I; 1L]", ErrParse},
		{"unclosed array", "[L; 1", ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(tt.in)
			if !errors.Is(err, tt.is) {
				t.Fatalf("got %v, want %v", err, tt.is)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("%v is not a parse error", err)
			}
		})
	}
}

func TestParseNotCompound(t *testing.T) {
	if _, err := Parse([]byte("[1]")); !errors.Is(err, ErrNotCompound) {
		t.Errorf("got %v, want ErrNotCompound", err)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Parse([]byte("{a: 1,\n b: }"))
	if err == nil || !strings.Contains(err.Error(), "2:5") {
		t.Errorf("error should point at 2:5, got %v", err)
	}
}

func TestParseDepth(t *testing.T) {
	deep := strings.Repeat("[", tag.MaxDepth+1) + strings.Repeat("]", tag.MaxDepth+1)
	if _, err := ParseValue(deep); !errors.Is(err, tag.ErrDepth) {
		t.Errorf("got %v, want ErrDepth", err)
	}
	if _, err := ParseValue("[[[]]]", MaxDepth(2)); !errors.Is(err, tag.ErrDepth) {
		t.Errorf("MaxDepth(2): got %v, want ErrDepth", err)
	}
	if _, err := ParseValue("[[]]", MaxDepth(2)); err != nil {
		t.Errorf("MaxDepth(2): %v", err)
	}
}

func roundTripStorage() *storage.Storage {
	s := storage.New()
	s.SetByte("b", -1)
	s.SetBool("flag", true)
	s.SetShort("sh", 300)
	s.SetInt("i", -70000)
	s.SetLong("l", math.MinInt64)
	s.SetFloat("f", 0.1)
	s.SetDouble("d", 1e-300)
	s.SetDouble("inf", math.Inf(1))
	s.SetString("str", "ünïcode\x00 'q' \"dq\"")
	s.SetString("empty", "")
	s.SetByteArray("arr.bytes", []byte{0, 0x80, 0xff})
	s.SetIntArray("arr.ints", []int32{math.MaxInt32})
	s.SetLongArray("arr.longs", []int64{})
	storage.SetListOf(s, "lists.ints", []int32{1, 2, 3})
	storage.SetListOf(s, "lists.strings", []string{"a", "true", "1"})
	storage.SetListOf(s, "lists.empty", []string{})
	storage.SetListOf(s, "lists.arrays", [][]byte{{1}, {}})
	c := storage.New()
	c.SetInt("x", 1)
	c.SetString("deep.er", "y")
	storage.SetListOf(s, "lists.compounds", []*storage.Storage{c, storage.New()})
	s.SetList("lists.nested", []*storage.Value{storage.FromList(storage.FromInt(1)), storage.FromList()})
	s.SetCompound("emptyc", storage.New())
	s.SetEntry("dotted.name", storage.FromString("x"))
	s.SetEntry("", storage.FromInt(0))
	s.SetEntry("needs quoting: yes", storage.FromInt(1))
	return s
}

func TestEncodeParseRoundTrip(t *testing.T) {
	for _, opts := range [][]encode.EncodeOption{nil, {encode.Indent(2)}, {encode.Indent(4)}} {
		want := roundTripStorage()
		buf := bytes.NewBuffer(nil)
		if err := encode.Encode(want, buf, opts...); err != nil {
			t.Fatal(err)
		}
		got, err := Parse(buf.Bytes())
		if err != nil {
			t.Fatalf("%v\n%s", err, buf.String())
		}
		if !want.Equal(got) {
			t.Errorf("round trip mismatch for:\n%s\n%s", buf.String(), cmp.Diff(want, got))
		}
	}
}
