package storage

// Typed accessors. A Get returns def when the path is missing or holds a
// value of another type; numbers are never converted between widths. A Set
// creates intermediate compounds and replaces whatever was at the path.
// For the slice and pointer types, setting nil removes the path.

func (s *Storage) get(path string, t Type) *Value {
	v, ok := s.GetValue(path)
	if !ok || v.Type != t {
		return nil
	}
	return v
}

func (s *Storage) GetByte(path string, def int8) int8 {
	if v := s.get(path, ByteType); v != nil {
		return int8(v.Int)
	}
	return def
}

func (s *Storage) SetByte(path string, v int8) {
	s.SetValue(path, FromByte(v))
}

// GetBool reads a byte, true when it is non-zero.
func (s *Storage) GetBool(path string, def bool) bool {
	if v := s.get(path, ByteType); v != nil {
		return v.Int != 0
	}
	return def
}

// SetBool stores b as the byte 1 or 0.
func (s *Storage) SetBool(path string, b bool) {
	var v int8
	if b {
		v = 1
	}
	s.SetByte(path, v)
}

func (s *Storage) GetShort(path string, def int16) int16 {
	if v := s.get(path, ShortType); v != nil {
		return int16(v.Int)
	}
	return def
}

func (s *Storage) SetShort(path string, v int16) {
	s.SetValue(path, FromShort(v))
}

func (s *Storage) GetInt(path string, def int32) int32 {
	if v := s.get(path, IntType); v != nil {
		return int32(v.Int)
	}
	return def
}

func (s *Storage) SetInt(path string, v int32) {
	s.SetValue(path, FromInt(v))
}

func (s *Storage) GetLong(path string, def int64) int64 {
	if v := s.get(path, LongType); v != nil {
		return v.Int
	}
	return def
}

func (s *Storage) SetLong(path string, v int64) {
	s.SetValue(path, FromLong(v))
}

func (s *Storage) GetFloat(path string, def float32) float32 {
	if v := s.get(path, FloatType); v != nil {
		return float32(v.Float)
	}
	return def
}

func (s *Storage) SetFloat(path string, v float32) {
	s.SetValue(path, FromFloat(v))
}

func (s *Storage) GetDouble(path string, def float64) float64 {
	if v := s.get(path, DoubleType); v != nil {
		return v.Float
	}
	return def
}

func (s *Storage) SetDouble(path string, v float64) {
	s.SetValue(path, FromDouble(v))
}

func (s *Storage) GetString(path string, def string) string {
	if v := s.get(path, StringType); v != nil {
		return v.String
	}
	return def
}

func (s *Storage) SetString(path string, v string) {
	s.SetValue(path, FromString(v))
}

// GetByteArray returns the stored slice itself, not a copy.
func (s *Storage) GetByteArray(path string, def []byte) []byte {
	if v := s.get(path, ByteArrayType); v != nil {
		return v.Bytes
	}
	return def
}

func (s *Storage) SetByteArray(path string, v []byte) {
	if v == nil {
		s.Remove(path)
		return
	}
	s.SetValue(path, FromByteArray(v))
}

// GetIntArray returns the stored slice itself, not a copy.
func (s *Storage) GetIntArray(path string, def []int32) []int32 {
	if v := s.get(path, IntArrayType); v != nil {
		return v.Ints
	}
	return def
}

func (s *Storage) SetIntArray(path string, v []int32) {
	if v == nil {
		s.Remove(path)
		return
	}
	s.SetValue(path, FromIntArray(v))
}

// GetLongArray returns the stored slice itself, not a copy.
func (s *Storage) GetLongArray(path string, def []int64) []int64 {
	if v := s.get(path, LongArrayType); v != nil {
		return v.Longs
	}
	return def
}

func (s *Storage) SetLongArray(path string, v []int64) {
	if v == nil {
		s.Remove(path)
		return
	}
	s.SetValue(path, FromLongArray(v))
}

// GetCompound returns the compound at path as a live handle: changes made
// through it are changes to s.
func (s *Storage) GetCompound(path string, def *Storage) *Storage {
	if v := s.get(path, CompoundType); v != nil && v.Compound != nil {
		return v.Compound
	}
	return def
}

// SetCompound stores c at path; s takes ownership of c. When c already
// belongs to s, for example when it came from s.GetCompound, a copy is
// stored, so writes through one path never show up at another.
func (s *Storage) SetCompound(path string, c *Storage) {
	if c == nil {
		s.Remove(path)
		return
	}
	s.SetValue(path, FromCompound(c))
}
