package tag

import (
	"fmt"
	"slices"
)

// Node is one value of a tag tree. Like the kind itself, the payload is a
// tagged union: which fields are meaningful depends on Kind.
//
//   - Byte, Short, Int, Long: Int
//   - Float, Double: Float
//   - String: String
//   - ByteArray, IntArray, LongArray: Bytes, Ints, Longs
//   - List: ElemKind and Values
//   - Compound: Names and Values, where Names[i] is the key of Values[i]
type Node struct {
	Kind Kind

	Int    int64
	Float  float64
	String string
	Bytes  []byte
	Ints   []int32
	Longs  []int64

	ElemKind Kind
	Names    []string
	Values   []*Node
}

func FromByte(v int8) *Node {
	return &Node{Kind: ByteKind, Int: int64(v)}
}

func FromShort(v int16) *Node {
	return &Node{Kind: ShortKind, Int: int64(v)}
}

func FromInt(v int32) *Node {
	return &Node{Kind: IntKind, Int: int64(v)}
}

func FromLong(v int64) *Node {
	return &Node{Kind: LongKind, Int: v}
}

func FromFloat(v float32) *Node {
	return &Node{Kind: FloatKind, Float: float64(v)}
}

func FromDouble(v float64) *Node {
	return &Node{Kind: DoubleKind, Float: v}
}

func FromString(v string) *Node {
	return &Node{Kind: StringKind, String: v}
}

func FromByteArray(v []byte) *Node {
	return &Node{Kind: ByteArrayKind, Bytes: v}
}

func FromIntArray(v []int32) *Node {
	return &Node{Kind: IntArrayKind, Ints: v}
}

func FromLongArray(v []int64) *Node {
	return &Node{Kind: LongArrayKind, Longs: v}
}

// NewList returns an empty list. Pass EndKind to let the first appended
// element decide the element kind.
func NewList(elem Kind) *Node {
	return &Node{Kind: ListKind, ElemKind: elem}
}

func NewCompound() *Node {
	return &Node{Kind: CompoundKind}
}

// Append adds v to the list n. Every element of a list shares one kind;
// appending a node of another kind fails with ErrListKind and leaves n
// unchanged.
func (n *Node) Append(v *Node) error {
	if n.Kind != ListKind {
		return fmt.Errorf("append to %s", n.Kind)
	}
	if n.ElemKind == EndKind && len(n.Values) == 0 {
		n.ElemKind = v.Kind
	}
	if v.Kind != n.ElemKind {
		return fmt.Errorf("%w: %s in list of %s", ErrListKind, v.Kind, n.ElemKind)
	}
	n.Values = append(n.Values, v)
	return nil
}

// Put sets the field name of compound n to v, replacing any existing field
// of that name.
func (n *Node) Put(name string, v *Node) {
	if i := slices.Index(n.Names, name); i >= 0 {
		n.Values[i] = v
		return
	}
	n.Names = append(n.Names, name)
	n.Values = append(n.Values, v)
}

// Get returns the field name of compound n, or nil.
func (n *Node) Get(name string) *Node {
	if n.Kind != CompoundKind {
		return nil
	}
	if i := slices.Index(n.Names, name); i >= 0 {
		return n.Values[i]
	}
	return nil
}

// Keys returns the field names of a compound in stored order.
func (n *Node) Keys() []string {
	if n.Kind != CompoundKind {
		return nil
	}
	return slices.Clone(n.Names)
}

// Len is the number of elements of a list, fields of a compound or
// entries of an array.
func (n *Node) Len() int {
	switch n.Kind {
	case ListKind, CompoundKind:
		return len(n.Values)
	case ByteArrayKind:
		return len(n.Bytes)
	case IntArrayKind:
		return len(n.Ints)
	case LongArrayKind:
		return len(n.Longs)
	case StringKind:
		return len(n.String)
	}
	return 0
}
