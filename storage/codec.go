package storage

import (
	"fmt"
	"slices"

	"github.com/signadot/tagstore/debug"
	"github.com/signadot/tagstore/tag"
)

// FromTag decodes a compound tag tree. End nodes are skipped; a node of
// any kind outside the tag kinds fails with ErrUnsupportedTagKind.
func FromTag(n *tag.Node) (*Storage, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil root", tag.ErrRoot)
	}
	if n.Kind != tag.CompoundKind {
		return nil, fmt.Errorf("%w: root is %s", tag.ErrRoot, n.Kind)
	}
	return decodeCompound(n, "")
}

func decodeCompound(n *tag.Node, path string) (*Storage, error) {
	if len(n.Names) != len(n.Values) {
		return nil, fmt.Errorf("compound %q has %d names for %d values", path, len(n.Names), len(n.Values))
	}
	res := &Storage{m: make(map[string]*Value, len(n.Values))}
	for i, name := range n.Names {
		p := join(path, name)
		v, err := decodeValue(n.Values[i], p)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		res.m[name] = v
	}
	return res, nil
}

// decodeValue returns nil, nil for nodes that carry no value.
func decodeValue(n *tag.Node, path string) (*Value, error) {
	if n == nil {
		return nil, nil
	}
	if debug.Codec() {
		debug.Logf("decode %q: %s\n", path, n.Kind)
	}
	switch n.Kind {
	case tag.EndKind:
		return nil, nil
	case tag.ByteKind:
		return FromByte(int8(n.Int)), nil
	case tag.ShortKind:
		return FromShort(int16(n.Int)), nil
	case tag.IntKind:
		return FromInt(int32(n.Int)), nil
	case tag.LongKind:
		return FromLong(n.Int), nil
	case tag.FloatKind:
		return FromFloat(float32(n.Float)), nil
	case tag.DoubleKind:
		return FromDouble(n.Float), nil
	case tag.StringKind:
		return FromString(n.String), nil
	case tag.ByteArrayKind:
		return FromByteArray(cloneOrEmpty(n.Bytes)), nil
	case tag.IntArrayKind:
		return FromIntArray(cloneOrEmpty(n.Ints)), nil
	case tag.LongArrayKind:
		return FromLongArray(cloneOrEmpty(n.Longs)), nil
	case tag.ListKind:
		elems := make([]*Value, 0, len(n.Values))
		for i, e := range n.Values {
			v, err := decodeValue(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			elems = append(elems, v)
		}
		return FromList(elems...), nil
	case tag.CompoundKind:
		c, err := decodeCompound(n, path)
		if err != nil {
			return nil, err
		}
		return FromCompound(c), nil
	}
	return nil, fmt.Errorf("%w: %s at %q", ErrUnsupportedTagKind, n.Kind, path)
}

// cloneOrEmpty copies d; arrays decode as non-nil so that setting them
// back never turns into a removal.
func cloneOrEmpty[S ~[]E, E any](d S) S {
	if d == nil {
		return S{}
	}
	return slices.Clone(d)
}

// ToTag encodes s as a compound tag tree with names in sorted order.
//
// Values without a tag mapping are dropped and reported to the configured
// logger as ErrUnrepresentableValue: values of InvalidType, compounds
// without a Storage, nil list elements and list elements whose type differs
// from the list's first encodable element. Strings and names the configured
// dialect cannot write, such as ones longer than its length prefix allows,
// are dropped the same way. Everything else is encoded.
func (s *Storage) ToTag(opts ...Option) *tag.Node {
	o := newOptions(opts)
	enc := &encoder{opts: o, depth: 1}
	return enc.compound(s, "")
}

type encoder struct {
	opts  *options
	depth int
}

func (e *encoder) skip(path string, err error) {
	e.opts.logger.Warn("dropping value", "path", path, "error", err)
}

func (e *encoder) compound(s *Storage, path string) *tag.Node {
	res := tag.NewCompound()
	keys := s.Keys()
	res.Names = make([]string, 0, len(keys))
	res.Values = make([]*tag.Node, 0, len(keys))
	for _, k := range keys {
		p := join(path, k)
		if err := tag.CheckString(e.opts.dialect, k); err != nil {
			e.skip(p, fmt.Errorf("%w: name: %w", ErrUnrepresentableValue, err))
			continue
		}
		n, err := e.value(s.m[k], p)
		if err != nil {
			e.skip(p, err)
			continue
		}
		res.Names = append(res.Names, k)
		res.Values = append(res.Values, n)
	}
	return res
}

func (e *encoder) value(v *Value, path string) (*tag.Node, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnrepresentableValue)
	}
	if debug.Codec() {
		debug.Logf("encode %q: %s as %s\n", path, v.Type, v.Type.Kind())
	}
	switch v.Type {
	case ByteType:
		return tag.FromByte(int8(v.Int)), nil
	case ShortType:
		return tag.FromShort(int16(v.Int)), nil
	case IntType:
		return tag.FromInt(int32(v.Int)), nil
	case LongType:
		return tag.FromLong(v.Int), nil
	case FloatType:
		return tag.FromFloat(float32(v.Float)), nil
	case DoubleType:
		return tag.FromDouble(v.Float), nil
	case StringType:
		if err := tag.CheckString(e.opts.dialect, v.String); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnrepresentableValue, err)
		}
		return tag.FromString(v.String), nil
	case ByteArrayType:
		return tag.FromByteArray(v.Bytes), nil
	case IntArrayType:
		return tag.FromIntArray(v.Ints), nil
	case LongArrayType:
		return tag.FromLongArray(v.Longs), nil
	case ListType:
		if err := e.enter(); err != nil {
			return nil, err
		}
		defer e.leave()
		res := tag.NewList(tag.EndKind)
		for i, el := range v.List {
			p := fmt.Sprintf("%s[%d]", path, i)
			n, err := e.value(el, p)
			if err != nil {
				e.skip(p, err)
				continue
			}
			if err := res.Append(n); err != nil {
				e.skip(p, fmt.Errorf("%w: %w", ErrUnrepresentableValue, err))
			}
		}
		return res, nil
	case CompoundType:
		if v.Compound == nil {
			return nil, fmt.Errorf("%w: compound without storage", ErrUnrepresentableValue)
		}
		if err := e.enter(); err != nil {
			return nil, err
		}
		defer e.leave()
		return e.compound(v.Compound, path), nil
	}
	return nil, fmt.Errorf("%w: type %s", ErrUnrepresentableValue, v.Type)
}

func (e *encoder) enter() error {
	e.depth++
	if e.depth > tag.MaxDepth {
		e.depth--
		return fmt.Errorf("%w: %w", ErrUnrepresentableValue, tag.ErrDepth)
	}
	return nil
}

func (e *encoder) leave() {
	e.depth--
}
