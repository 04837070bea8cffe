package storage

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tagstore/tag"
)

// fullStorage uses every setter.
func fullStorage() *Storage {
	s := New()
	s.SetByte("b", -1)
	s.SetBool("flag", true)
	s.SetShort("sh", 300)
	s.SetInt("i", -70000)
	s.SetLong("l", math.MinInt64)
	s.SetFloat("f", 0.1)
	s.SetDouble("d", math.NaN())
	s.SetString("str", "ünïcode\x00")
	s.SetString("empty", "")
	s.SetByteArray("arr.bytes", []byte{0, 0x80, 0xff})
	s.SetIntArray("arr.ints", []int32{math.MaxInt32})
	s.SetLongArray("arr.longs", []int64{})
	SetListOf(s, "lists.ints", []int32{1, 2, 3})
	SetListOf(s, "lists.strings", []string{"a"})
	SetListOf(s, "lists.empty", []string{})
	SetListOf(s, "lists.arrays", [][]byte{{1}, {}})
	c := New()
	c.SetInt("x", 1)
	c.SetString("deep.er", "y")
	SetListOf(s, "lists.compounds", []*Storage{c, New()})
	s.SetList("lists.nested", []*Value{FromList(FromInt(1)), FromList()})
	s.SetCompound("emptyc", New())
	return s
}

func TestTagRoundTrip(t *testing.T) {
	want := fullStorage()
	got, err := FromTag(want.ToTag())
	if err != nil {
		t.Fatal(err)
	}
	if !want.Equal(got) {
		t.Errorf("round trip mismatch:\n%s", cmp.Diff(want, got))
	}
	if !math.IsNaN(got.GetDouble("d", 0)) {
		t.Error("NaN lost")
	}
	if got := GetList[int32](got, "lists.ints", nil); !cmp.Equal(got, []int32{1, 2, 3}) {
		t.Errorf("ints = %v", got)
	}
}

func TestDialectRoundTrip(t *testing.T) {
	for _, d := range tag.Dialects() {
		t.Run(d.String(), func(t *testing.T) {
			want := fullStorage()
			data, err := want.Marshal(WithDialect(d), WithCompression(tag.None))
			if err != nil {
				t.Fatal(err)
			}
			got, err := Unmarshal(data, WithDialect(d))
			if err != nil {
				t.Fatal(err)
			}
			if !want.Equal(got) {
				t.Errorf("round trip mismatch:\n%s", cmp.Diff(want, got))
			}
		})
	}
}

func TestToTagSortsNames(t *testing.T) {
	s := New()
	s.SetInt("b", 1)
	s.SetInt("a", 2)
	s.SetInt("c", 3)
	n := s.ToTag()
	if diff := cmp.Diff([]string{"a", "b", "c"}, n.Keys()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromTagSkipsEnd(t *testing.T) {
	root := tag.NewCompound()
	root.Put("end", &tag.Node{Kind: tag.EndKind})
	root.Put("x", tag.FromInt(1))
	s, err := FromTag(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"x"}, s.Keys()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromTagUnsupportedKind(t *testing.T) {
	root := tag.NewCompound()
	inner := tag.NewCompound()
	inner.Put("bad", &tag.Node{Kind: tag.Kind(99)})
	root.Put("a", inner)
	_, err := FromTag(root)
	if !errors.Is(err, ErrUnsupportedTagKind) {
		t.Fatalf("got %v, want ErrUnsupportedTagKind", err)
	}
	if !strings.Contains(err.Error(), `"a.bad"`) {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestFromTagRoot(t *testing.T) {
	if _, err := FromTag(tag.FromInt(1)); !errors.Is(err, tag.ErrRoot) {
		t.Errorf("got %v, want ErrRoot", err)
	}
	if _, err := FromTag(nil); !errors.Is(err, tag.ErrRoot) {
		t.Errorf("got %v, want ErrRoot", err)
	}
}

func TestToTagDropsUnrepresentable(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := slog.New(slog.NewTextHandler(buf, nil))

	s := New()
	s.SetInt("ok", 1)
	s.SetValue("zero", &Value{})
	s.SetValue("nilc", &Value{Type: CompoundType})
	s.SetList("xs", []*Value{FromInt(1), FromString("two"), nil, FromInt(3)})

	got, err := FromTag(s.ToTag(WithLogger(logger)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ok", "xs"}, got.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{1, 3}, GetList[int32](got, "xs", nil)); diff != "" {
		t.Errorf("list (-want +got):\n%s", diff)
	}
	logs := buf.String()
	for _, p := range []string{"path=zero", "path=nilc", "path=xs[1]", "path=xs[2]"} {
		if !strings.Contains(logs, p) {
			t.Errorf("no warning for %s in:\n%s", p, logs)
		}
	}
	if strings.Count(logs, "level=WARN") != 4 {
		t.Errorf("want 4 warnings, got:\n%s", logs)
	}
	// the in-memory value survives
	if v, ok := s.GetValue("zero"); !ok || v.Type != InvalidType {
		t.Error("encoding changed the storage")
	}
}

func TestToTagDepthLimit(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	s := New()
	path := strings.Repeat("n.", tag.MaxDepth) + "leaf"
	s.SetInt(path, 1)
	root := s.ToTag(WithLogger(slog.New(slog.NewTextHandler(buf, nil))))
	if !strings.Contains(buf.String(), "nested too deeply") {
		t.Errorf("expected a depth warning, got:\n%s", buf.String())
	}
	if _, err := tag.Marshal(tag.BigEndian, root); err != nil {
		t.Errorf("truncated tree should encode: %v", err)
	}
}
