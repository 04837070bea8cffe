package storage

import (
	"maps"
	"slices"
)

// Storage is a compound: a set of uniquely named Values. Setting a name
// that exists replaces its value. A Storage owns its values, and a Storage
// held as a Compound value is owned by that value; it must not be stored
// anywhere else at the same time.
//
// The zero Storage is empty and ready to use. A Storage is not safe for
// concurrent use.
type Storage struct {
	m map[string]*Value
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{m: map[string]*Value{}}
}

func (s *Storage) init() {
	if s.m == nil {
		s.m = map[string]*Value{}
	}
}

// Len is the number of direct entries.
func (s *Storage) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Keys returns the direct entry names in sorted order.
func (s *Storage) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.m))
}

// Entry returns the direct entry called name. Unlike GetValue, name is
// not split on '.', so every entry is reachable.
func (s *Storage) Entry(name string) (*Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.m[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// SetEntry stores v as the direct entry called name, with the ownership
// rules of SetValue. A nil v removes the entry.
func (s *Storage) SetEntry(name string, v *Value) {
	if v == nil {
		if s != nil {
			delete(s.m, name)
		}
		return
	}
	if s.holds(v) {
		v = v.Clone()
	}
	s.init()
	s.m[name] = v
}

// Clone returns a deep copy of s.
func (s *Storage) Clone() *Storage {
	if s == nil {
		return nil
	}
	res := &Storage{m: make(map[string]*Value, len(s.m))}
	for k, v := range s.m {
		res.m[k] = v.Clone()
	}
	return res
}

// Equal reports whether s and o have the same names holding equal values.
func (s *Storage) Equal(o *Storage) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.m) != len(o.m) {
		return false
	}
	for k, v := range s.m {
		ov, ok := o.m[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Walk calls f for every value in s, depth first in key order, with the
// dotted path of the value. Compounds are visited before their children.
// Lists are not entered. If f returns an error the walk stops and returns it.
func (s *Storage) Walk(f func(path string, v *Value) error) error {
	return s.walk("", f)
}

func (s *Storage) walk(prefix string, f func(string, *Value) error) error {
	for _, k := range s.Keys() {
		v := s.m[k]
		p := join(prefix, k)
		if err := f(p, v); err != nil {
			return err
		}
		if v != nil && v.Type == CompoundType && v.Compound != nil {
			if err := v.Compound.walk(p, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// holds reports whether v, or a compound or list inside v, is already part
// of the tree under s. Only containers are checked: scalar values are
// created fresh by the setters.
func (s *Storage) holds(v *Value) bool {
	if v == nil || (v.Type != CompoundType && v.Type != ListType) {
		return false
	}
	ns := nodeSet{}
	ns.addValue(v)
	return ns.meetsStorage(s)
}

// nodeSet holds the *Value and *Storage pointers of a tree.
type nodeSet map[any]struct{}

func (ns nodeSet) addValue(v *Value) {
	if v == nil {
		return
	}
	ns[v] = struct{}{}
	switch v.Type {
	case CompoundType:
		ns.addStorage(v.Compound)
	case ListType:
		for _, e := range v.List {
			ns.addValue(e)
		}
	}
}

func (ns nodeSet) addStorage(s *Storage) {
	if s == nil {
		return
	}
	ns[s] = struct{}{}
	for _, v := range s.m {
		ns.addValue(v)
	}
}

func (ns nodeSet) meetsStorage(s *Storage) bool {
	if s == nil {
		return false
	}
	if _, ok := ns[s]; ok {
		return true
	}
	for _, v := range s.m {
		if ns.meetsValue(v) {
			return true
		}
	}
	return false
}

func (ns nodeSet) meetsValue(v *Value) bool {
	if v == nil {
		return false
	}
	if _, ok := ns[v]; ok {
		return true
	}
	switch v.Type {
	case CompoundType:
		return ns.meetsStorage(v.Compound)
	case ListType:
		for _, e := range v.List {
			if ns.meetsValue(e) {
				return true
			}
		}
	}
	return false
}
