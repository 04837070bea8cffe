package storage

import (
	"fmt"

	"github.com/signadot/tagstore/tag"
)

// Type is the discriminant of a Value.
type Type int

const (
	InvalidType Type = iota
	ByteType
	ShortType
	IntType
	LongType
	FloatType
	DoubleType
	StringType
	ByteArrayType
	IntArrayType
	LongArrayType
	ListType
	CompoundType
)

var typeNames = map[Type]string{
	InvalidType:   "Invalid",
	ByteType:      "Byte",
	ShortType:     "Short",
	IntType:       "Int",
	LongType:      "Long",
	FloatType:     "Float",
	DoubleType:    "Double",
	StringType:    "String",
	ByteArrayType: "ByteArray",
	IntArrayType:  "IntArray",
	LongArrayType: "LongArray",
	ListType:      "List",
	CompoundType:  "Compound",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, s := range typeNames {
		if s == string(d) && tt != InvalidType {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

func Types() []Type {
	return []Type{
		ByteType,
		ShortType,
		IntType,
		LongType,
		FloatType,
		DoubleType,
		StringType,
		ByteArrayType,
		IntArrayType,
		LongArrayType,
		ListType,
		CompoundType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ListType, CompoundType, InvalidType:
		return false
	default:
		return true
	}
}

// Kind is the tag kind t encodes to, or tag.EndKind if there is none.
func (t Type) Kind() tag.Kind {
	k, ok := map[Type]tag.Kind{
		ByteType:      tag.ByteKind,
		ShortType:     tag.ShortKind,
		IntType:       tag.IntKind,
		LongType:      tag.LongKind,
		FloatType:     tag.FloatKind,
		DoubleType:    tag.DoubleKind,
		StringType:    tag.StringKind,
		ByteArrayType: tag.ByteArrayKind,
		IntArrayType:  tag.IntArrayKind,
		LongArrayType: tag.LongArrayKind,
		ListType:      tag.ListKind,
		CompoundType:  tag.CompoundKind,
	}[t]
	if !ok {
		return tag.EndKind
	}
	return k
}
