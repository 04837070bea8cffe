package storage

import (
	"strings"

	"github.com/signadot/tagstore/debug"
)

// Paths are names joined by '.'. There is no escaping: a name containing a
// '.' cannot be addressed. Every segment is taken literally, so "a..b" and
// ".a" address names that are the empty string.

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// resolveForWrite returns the storage holding the last segment of path
// and that segment. Missing intermediate segments, and ones holding
// anything but a compound, are replaced by empty compounds.
func (s *Storage) resolveForWrite(path string) (*Storage, string) {
	segs := strings.Split(path, ".")
	cur := s
	cur.init()
	for _, seg := range segs[:len(segs)-1] {
		v := cur.m[seg]
		if v == nil || v.Type != CompoundType || v.Compound == nil {
			if debug.Path() {
				debug.Logf("path %q: creating compound %q\n", path, seg)
			}
			v = FromCompound(New())
			cur.m[seg] = v
		}
		cur = v.Compound
		cur.init()
	}
	return cur, segs[len(segs)-1]
}

// resolveForRead is resolveForWrite without creating anything. It returns
// nil if an intermediate segment is missing or not a compound.
func (s *Storage) resolveForRead(path string) (*Storage, string) {
	if s == nil {
		return nil, ""
	}
	segs := strings.Split(path, ".")
	cur := s
	for _, seg := range segs[:len(segs)-1] {
		v := cur.m[seg]
		if v == nil || v.Type != CompoundType || v.Compound == nil {
			return nil, ""
		}
		cur = v.Compound
	}
	return cur, segs[len(segs)-1]
}

// GetValue returns the value at path. The value is live: changing it
// changes s.
func (s *Storage) GetValue(path string) (*Value, bool) {
	parent, name := s.resolveForRead(path)
	if parent == nil {
		return nil, false
	}
	v, ok := parent.m[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// SetValue stores v at path, creating intermediate compounds. s takes
// ownership of v. A nil v removes path. If a compound or list in v is
// already part of s, as it is after GetValue or GetCompound on s, a copy
// of v is stored instead, so no two paths share a value.
func (s *Storage) SetValue(path string, v *Value) {
	if v == nil {
		s.Remove(path)
		return
	}
	if s.holds(v) {
		v = v.Clone()
	}
	parent, name := s.resolveForWrite(path)
	parent.m[name] = v
}

// Has reports whether path holds a value.
func (s *Storage) Has(path string) bool {
	_, ok := s.GetValue(path)
	return ok
}

// Remove deletes the value at path. Missing paths are ignored.
func (s *Storage) Remove(path string) {
	parent, name := s.resolveForRead(path)
	if parent == nil {
		return
	}
	delete(parent.m, name)
}
