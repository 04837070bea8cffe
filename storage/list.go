package storage

import "github.com/signadot/tagstore/debug"

// Element is the set of Go types a list can be read or written as. Each
// maps to exactly one Type: int8 to Byte, int16 to Short, int32 to Int,
// int64 to Long, float32 to Float, float64 to Double, string to String,
// []byte, []int32 and []int64 to the array types and *Storage to Compound.
type Element interface {
	int8 | int16 | int32 | int64 | float32 | float64 | string | []byte | []int32 | []int64 | *Storage
}

// GetList returns the elements of the list at path whose type matches T,
// in order. It returns def when the path is missing, does not hold a list,
// or when no element matches, so an empty list also reads as def.
// Compound elements are returned as live handles.
func GetList[T Element](s *Storage, path string, def []T) []T {
	v := s.get(path, ListType)
	if v == nil {
		return def
	}
	res := make([]T, 0, len(v.List))
	for i, e := range v.List {
		x, ok := elementAs[T](e)
		if !ok {
			if debug.List() {
				debug.Logf("list %q: dropping element %d of type %s\n", path, i, typeOf(e))
			}
			continue
		}
		res = append(res, x)
	}
	if len(res) == 0 {
		return def
	}
	return res
}

// SetListOf stores xs as a list of the Type matching T. A nil xs removes
// path; nil *Storage elements are left out.
func SetListOf[T Element](s *Storage, path string, xs []T) {
	if xs == nil {
		s.Remove(path)
		return
	}
	vs := make([]*Value, 0, len(xs))
	for _, x := range xs {
		if v := valueOf(x); v != nil {
			vs = append(vs, v)
		}
	}
	s.SetValue(path, FromList(vs...))
}

// GetRawList returns the list at path with all its elements, whatever
// their types. The slice is the stored one.
func (s *Storage) GetRawList(path string) ([]*Value, bool) {
	v := s.get(path, ListType)
	if v == nil {
		return nil, false
	}
	return v.List, true
}

// SetList stores vs as a list. s takes ownership of the elements. The
// elements may have different types; see FromList. A nil vs removes path.
func (s *Storage) SetList(path string, vs []*Value) {
	if vs == nil {
		s.Remove(path)
		return
	}
	s.SetValue(path, FromList(vs...))
}

func typeOf(v *Value) Type {
	if v == nil {
		return InvalidType
	}
	return v.Type
}

func elementAs[T Element](v *Value) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	var x any
	switch any(zero).(type) {
	case int8:
		if v.Type == ByteType {
			x = int8(v.Int)
		}
	case int16:
		if v.Type == ShortType {
			x = int16(v.Int)
		}
	case int32:
		if v.Type == IntType {
			x = int32(v.Int)
		}
	case int64:
		if v.Type == LongType {
			x = v.Int
		}
	case float32:
		if v.Type == FloatType {
			x = float32(v.Float)
		}
	case float64:
		if v.Type == DoubleType {
			x = v.Float
		}
	case string:
		if v.Type == StringType {
			x = v.String
		}
	case []byte:
		if v.Type == ByteArrayType {
			x = v.Bytes
		}
	case []int32:
		if v.Type == IntArrayType {
			x = v.Ints
		}
	case []int64:
		if v.Type == LongArrayType {
			x = v.Longs
		}
	case *Storage:
		if v.Type == CompoundType && v.Compound != nil {
			x = v.Compound
		}
	}
	if x == nil {
		return zero, false
	}
	return x.(T), true
}

func valueOf[T Element](x T) *Value {
	switch v := any(x).(type) {
	case int8:
		return FromByte(v)
	case int16:
		return FromShort(v)
	case int32:
		return FromInt(v)
	case int64:
		return FromLong(v)
	case float32:
		return FromFloat(v)
	case float64:
		return FromDouble(v)
	case string:
		return FromString(v)
	case []byte:
		return FromByteArray(v)
	case []int32:
		return FromIntArray(v)
	case []int64:
		return FromLongArray(v)
	case *Storage:
		if v == nil {
			return nil
		}
		return FromCompound(v)
	}
	return nil
}
