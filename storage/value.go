package storage

import (
	"bytes"
	"math"
	"slices"
)

// Value is one entry of a Storage. It is a tagged union: Type says which of
// the payload fields holds the value.
//
//   - Byte, Short, Int, Long: Int
//   - Float, Double: Float
//   - String: String
//   - ByteArray, IntArray, LongArray: Bytes, Ints, Longs
//   - List: List
//   - Compound: Compound
//
// The zero Value has InvalidType and cannot be encoded.
type Value struct {
	Type Type

	Int      int64
	Float    float64
	String   string
	Bytes    []byte
	Ints     []int32
	Longs    []int64
	List     []*Value
	Compound *Storage
}

func FromByte(v int8) *Value {
	return &Value{Type: ByteType, Int: int64(v)}
}

func FromShort(v int16) *Value {
	return &Value{Type: ShortType, Int: int64(v)}
}

func FromInt(v int32) *Value {
	return &Value{Type: IntType, Int: int64(v)}
}

func FromLong(v int64) *Value {
	return &Value{Type: LongType, Int: v}
}

func FromFloat(v float32) *Value {
	return &Value{Type: FloatType, Float: float64(v)}
}

func FromDouble(v float64) *Value {
	return &Value{Type: DoubleType, Float: v}
}

func FromString(v string) *Value {
	return &Value{Type: StringType, String: v}
}

func FromByteArray(v []byte) *Value {
	return &Value{Type: ByteArrayType, Bytes: v}
}

func FromIntArray(v []int32) *Value {
	return &Value{Type: IntArrayType, Ints: v}
}

func FromLongArray(v []int64) *Value {
	return &Value{Type: LongArrayType, Longs: v}
}

// FromList makes a list of vs. Nothing stops the elements from having
// different types, but typed reads only see the matching ones and an
// encoded list keeps only the elements of its first element's type.
func FromList(vs ...*Value) *Value {
	if vs == nil {
		vs = []*Value{}
	}
	return &Value{Type: ListType, List: vs}
}

func FromCompound(s *Storage) *Value {
	return &Value{Type: CompoundType, Compound: s}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	res := *v
	res.Bytes = slices.Clone(v.Bytes)
	res.Ints = slices.Clone(v.Ints)
	res.Longs = slices.Clone(v.Longs)
	if v.List != nil {
		res.List = make([]*Value, len(v.List))
		for i, e := range v.List {
			res.List[i] = e.Clone()
		}
	}
	if v.Compound != nil {
		res.Compound = v.Compound.Clone()
	}
	return &res
}

// Equal reports whether v and o hold the same typed value. Floats are
// compared by bit pattern, so a NaN equals itself.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ByteType, ShortType, IntType, LongType:
		return v.Int == o.Int
	case FloatType, DoubleType:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case StringType:
		return v.String == o.String
	case ByteArrayType:
		return bytes.Equal(v.Bytes, o.Bytes)
	case IntArrayType:
		return slices.Equal(v.Ints, o.Ints)
	case LongArrayType:
		return slices.Equal(v.Longs, o.Longs)
	case ListType:
		return slices.EqualFunc(v.List, o.List, (*Value).Equal)
	case CompoundType:
		return v.Compound.Equal(o.Compound)
	}
	return true
}

