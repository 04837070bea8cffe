package tag

import "fmt"

// Kind is the discriminant of a tag node. The numbering is the one written
// on the wire by every supported dialect.
type Kind byte

const (
	EndKind Kind = iota
	ByteKind
	ShortKind
	IntKind
	LongKind
	FloatKind
	DoubleKind
	ByteArrayKind
	StringKind
	ListKind
	CompoundKind
	IntArrayKind
	LongArrayKind
)

var kindNames = map[Kind]string{
	EndKind:       "End",
	ByteKind:      "Byte",
	ShortKind:     "Short",
	IntKind:       "Int",
	LongKind:      "Long",
	FloatKind:     "Float",
	DoubleKind:    "Double",
	ByteArrayKind: "ByteArray",
	StringKind:    "String",
	ListKind:      "List",
	CompoundKind:  "Compound",
	IntArrayKind:  "IntArray",
	LongArrayKind: "LongArray",
}

func (k Kind) String() string {
	s, ok := kindNames[k]
	if ok {
		return s
	}
	return fmt.Sprintf("<unknown kind %d>", byte(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, byte(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for kk, s := range kindNames {
		if s == string(d) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, d)
}

// Valid reports whether k is one of the kinds a dialect can read or write.
func (k Kind) Valid() bool {
	return k <= LongArrayKind
}

// IsContainer reports whether nodes of kind k hold child nodes.
func (k Kind) IsContainer() bool {
	return k == ListKind || k == CompoundKind
}

// Kinds returns every valid kind except EndKind.
func Kinds() []Kind {
	return []Kind{
		ByteKind,
		ShortKind,
		IntKind,
		LongKind,
		FloatKind,
		DoubleKind,
		ByteArrayKind,
		StringKind,
		ListKind,
		CompoundKind,
		IntArrayKind,
		LongArrayKind,
	}
}
