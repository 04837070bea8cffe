package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mixed() *Storage {
	s := New()
	s.SetList("xs", []*Value{FromInt(1), FromString("two"), FromInt(3)})
	return s
}

func TestGetListFilters(t *testing.T) {
	s := mixed()
	if diff := cmp.Diff([]int32{1, 3}, GetList[int32](s, "xs", []int32{})); diff != "" {
		t.Errorf("ints (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"two"}, GetList[string](s, "xs", nil)); diff != "" {
		t.Errorf("strings (-want +got):\n%s", diff)
	}
	raw, ok := s.GetRawList("xs")
	if !ok || len(raw) != 3 {
		t.Errorf("filtered reads changed the list: %v", raw)
	}
}

func TestGetListDefault(t *testing.T) {
	def := []int64{42}
	tests := []struct {
		name string
		s    *Storage
		path string
	}{
		{"missing", New(), "xs"},
		{"no match", mixed(), "xs"},
		{"not a list", func() *Storage { s := New(); s.SetInt("xs", 1); return s }(), "xs"},
		{"empty list", func() *Storage { s := New(); SetListOf(s, "xs", []int64{}); return s }(), "xs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetList(tt.s, tt.path, def)
			if diff := cmp.Diff(def, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetListOf(t *testing.T) {
	s := New()
	SetListOf(s, "f", []float32{1.5, -2})
	SetListOf(s, "arrs", [][]int32{{1}, {2, 3}})
	SetListOf(s, "a.b.names", []string{"x", "y"})

	if diff := cmp.Diff([]float32{1.5, -2}, GetList[float32](s, "f", nil)); diff != "" {
		t.Errorf("floats (-want +got):\n%s", diff)
	}
	if got := GetList[float64](s, "f", nil); got != nil {
		t.Errorf("floats must not read as doubles: %v", got)
	}
	if diff := cmp.Diff([][]int32{{1}, {2, 3}}, GetList[[]int32](s, "arrs", nil)); diff != "" {
		t.Errorf("int arrays (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, GetList[string](s, "a.b.names", nil)); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestListOfCompounds(t *testing.T) {
	s := New()
	a, b := New(), New()
	a.SetInt("n", 1)
	b.SetInt("n", 2)
	SetListOf(s, "items", []*Storage{a, nil, b})

	items := GetList[*Storage](s, "items", nil)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	items[1].SetInt("n", 20)
	raw, _ := s.GetRawList("items")
	if got := raw[1].Compound.GetInt("n", 0); got != 20 {
		t.Errorf("list compounds should be live handles, got %d", got)
	}
}
