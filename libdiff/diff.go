package libdiff

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/tagstore/storage"
)

var ErrPatch = errors.New("patch error")

type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("<op %d>", int(o))
	}
}

// Symbol is the one character marker used when printing a change.
func (o Op) Symbol() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return "~"
	}
}

// Change is one difference between two storages. Path holds the entry
// names from the root, so names containing '.' stay unambiguous. From is
// nil for an Insert and To is nil for a Delete.
type Change struct {
	Path []string
	Op   Op
	From *storage.Value
	To   *storage.Value
}

func (c *Change) PathString() string {
	return strings.Join(c.Path, ".")
}

// Diff returns the changes taking from to to, in path order. Compounds
// present on both sides are compared entry by entry. Any other pair of
// unequal values, lists included, is a single Replace.
func Diff(from, to *storage.Storage) []Change {
	return diff(nil, from, to, nil)
}

func diff(prefix []string, from, to *storage.Storage, res []Change) []Change {
	keys := append(from.Keys(), to.Keys()...)
	slices.Sort(keys)
	keys = slices.Compact(keys)
	for _, k := range keys {
		path := append(slices.Clip(prefix), k)
		f, fok := from.Entry(k)
		t, tok := to.Entry(k)
		switch {
		case !tok:
			res = append(res, Change{Path: path, Op: Delete, From: f})
		case !fok:
			res = append(res, Change{Path: path, Op: Insert, To: t})
		case isCompound(f) && isCompound(t):
			res = diff(path, f.Compound, t.Compound, res)
		case !f.Equal(t):
			res = append(res, Change{Path: path, Op: Replace, From: f, To: t})
		}
	}
	return res
}

func isCompound(v *storage.Value) bool {
	return v.Type == storage.CompoundType && v.Compound != nil
}

// Reverse returns the changes taking the diff's target back to its source.
func Reverse(cs []Change) []Change {
	res := make([]Change, len(cs))
	for i, c := range cs {
		r := Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Insert:
			r.Op = Delete
		case Delete:
			r.Op = Insert
		default:
			r.Op = Replace
		}
		res[i] = r
	}
	return res
}

// Apply applies cs to s. Inserted and replacing values are copied, so
// the changes can be applied more than once. Apply stops at the first
// change whose parent compound is missing from s.
func Apply(s *storage.Storage, cs []Change) error {
	for i := range cs {
		c := &cs[i]
		if len(c.Path) == 0 {
			return fmt.Errorf("%w: empty path", ErrPatch)
		}
		parent := s
		for _, name := range c.Path[:len(c.Path)-1] {
			v, ok := parent.Entry(name)
			if !ok || !isCompound(v) {
				return fmt.Errorf("%w: no compound %q for %s %s", ErrPatch, name, c.Op, c.PathString())
			}
			parent = v.Compound
		}
		name := c.Path[len(c.Path)-1]
		switch c.Op {
		case Delete:
			parent.SetEntry(name, nil)
		default:
			if c.To == nil {
				return fmt.Errorf("%w: %s %s without a value", ErrPatch, c.Op, c.PathString())
			}
			parent.SetEntry(name, c.To.Clone())
		}
	}
	return nil
}
