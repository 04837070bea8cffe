package tag

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

const (
	// MaxDepth bounds the nesting of lists and compounds.
	MaxDepth = 512

	// chunk bounds how much is allocated ahead of data actually read, so a
	// corrupt length cannot allocate gigabytes up front.
	chunk = 64 << 10
)

type binaryDialect struct {
	name   string
	order  binary.ByteOrder
	varint bool
	mutf8  bool
}

func (d *binaryDialect) String() string {
	return d.name
}

// checkString reports whether s fits the string encoding of d.
func (d *binaryDialect) checkString(s string) error {
	n := len(s)
	if d.mutf8 {
		if !utf8.ValidString(s) {
			return fmt.Errorf("%w: invalid UTF-8 in %s strings", ErrString, d.name)
		}
		n = mutf8Len(s)
	}
	limit := math.MaxUint16
	if d.varint {
		limit = math.MaxInt32
	}
	if n > limit {
		return fmt.Errorf("%w: string of %d bytes", ErrLength, n)
	}
	return nil
}

// Decode reads a single root. The reader is buffered internally, so
// bytes after the root may be consumed from r.
func (d *binaryDialect) Decode(r io.Reader) (*Node, string, error) {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	dc := &decoder{r: br, d: d}
	k, err := dc.readKind()
	if err != nil {
		return nil, "", err
	}
	if k == EndKind {
		return nil, "", fmt.Errorf("%w: stream starts with End", ErrRoot)
	}
	name, err := dc.readString()
	if err != nil {
		return nil, "", eof(err)
	}
	n, err := dc.readPayload(k)
	if err != nil {
		return nil, "", eof(err)
	}
	return n, name, nil
}

func (d *binaryDialect) Encode(w io.Writer, n *Node, name string) error {
	if n == nil || n.Kind == EndKind {
		return fmt.Errorf("%w: cannot encode empty root", ErrRoot)
	}
	bw := bufio.NewWriter(w)
	ec := &encoder{w: bw, d: d}
	if err := ec.writeKind(n.Kind); err != nil {
		return err
	}
	if err := ec.writeString(name); err != nil {
		return err
	}
	if err := ec.writePayload(n); err != nil {
		return err
	}
	return bw.Flush()
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// eof turns a clean EOF inside a root into a truncation error.
func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r     byteReader
	d     *binaryDialect
	buf   [8]byte
	depth int
}

func (dc *decoder) readKind() (Kind, error) {
	b, err := dc.r.ReadByte()
	if err != nil {
		return 0, err
	}
	k := Kind(b)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, b)
	}
	return k, nil
}

func (dc *decoder) fixed(n int) ([]byte, error) {
	b := dc.buf[:n]
	if _, err := io.ReadFull(dc.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (dc *decoder) readShort() (int16, error) {
	b, err := dc.fixed(2)
	if err != nil {
		return 0, err
	}
	return int16(dc.d.order.Uint16(b)), nil
}

func (dc *decoder) readInt() (int32, error) {
	if dc.d.varint {
		v, err := binary.ReadVarint(dc.r)
		if err != nil {
			return 0, err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: varint %d overflows int", ErrLength, v)
		}
		return int32(v), nil
	}
	b, err := dc.fixed(4)
	if err != nil {
		return 0, err
	}
	return int32(dc.d.order.Uint32(b)), nil
}

func (dc *decoder) readLong() (int64, error) {
	if dc.d.varint {
		return binary.ReadVarint(dc.r)
	}
	b, err := dc.fixed(8)
	if err != nil {
		return 0, err
	}
	return int64(dc.d.order.Uint64(b)), nil
}

func (dc *decoder) readLen() (int, error) {
	n, err := dc.readInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrLength, n)
	}
	return int(n), nil
}

func (dc *decoder) readString() (string, error) {
	var n int
	if dc.d.varint {
		v, err := binary.ReadUvarint(dc.r)
		if err != nil {
			return "", err
		}
		if v > math.MaxInt32 {
			return "", fmt.Errorf("%w: string length %d", ErrLength, v)
		}
		n = int(v)
	} else {
		v, err := dc.readShort()
		if err != nil {
			return "", err
		}
		n = int(uint16(v))
	}
	b, err := dc.readBytes(n)
	if err != nil {
		return "", err
	}
	if dc.d.mutf8 {
		return decodeMUTF8(b)
	}
	return string(b), nil
}

func (dc *decoder) readBytes(n int) ([]byte, error) {
	res := make([]byte, 0, min(n, chunk))
	for len(res) < n {
		sz := min(n-len(res), chunk)
		start := len(res)
		res = append(res, make([]byte, sz)...)
		if _, err := io.ReadFull(dc.r, res[start:]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (dc *decoder) readPayload(k Kind) (*Node, error) {
	switch k {
	case ByteKind:
		b, err := dc.r.ReadByte()
		if err != nil {
			return nil, err
		}
		return FromByte(int8(b)), nil
	case ShortKind:
		v, err := dc.readShort()
		if err != nil {
			return nil, err
		}
		return FromShort(v), nil
	case IntKind:
		v, err := dc.readInt()
		if err != nil {
			return nil, err
		}
		return FromInt(v), nil
	case LongKind:
		v, err := dc.readLong()
		if err != nil {
			return nil, err
		}
		return FromLong(v), nil
	case FloatKind:
		b, err := dc.fixed(4)
		if err != nil {
			return nil, err
		}
		return FromFloat(math.Float32frombits(dc.d.order.Uint32(b))), nil
	case DoubleKind:
		b, err := dc.fixed(8)
		if err != nil {
			return nil, err
		}
		return FromDouble(math.Float64frombits(dc.d.order.Uint64(b))), nil
	case StringKind:
		s, err := dc.readString()
		if err != nil {
			return nil, err
		}
		return FromString(s), nil
	case ByteArrayKind:
		n, err := dc.readLen()
		if err != nil {
			return nil, err
		}
		b, err := dc.readBytes(n)
		if err != nil {
			return nil, err
		}
		return FromByteArray(b), nil
	case IntArrayKind:
		n, err := dc.readLen()
		if err != nil {
			return nil, err
		}
		res := make([]int32, 0, min(n, chunk/4))
		for range n {
			v, err := dc.readInt()
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return FromIntArray(res), nil
	case LongArrayKind:
		n, err := dc.readLen()
		if err != nil {
			return nil, err
		}
		res := make([]int64, 0, min(n, chunk/8))
		for range n {
			v, err := dc.readLong()
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return FromLongArray(res), nil
	case ListKind:
		return dc.readList()
	case CompoundKind:
		return dc.readCompound()
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, byte(k))
}

func (dc *decoder) enter() error {
	dc.depth++
	if dc.depth > MaxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrDepth, MaxDepth)
	}
	return nil
}

func (dc *decoder) readList() (*Node, error) {
	if err := dc.enter(); err != nil {
		return nil, err
	}
	defer func() { dc.depth-- }()
	elem, err := dc.readKind()
	if err != nil {
		return nil, err
	}
	n, err := dc.readLen()
	if err != nil {
		return nil, err
	}
	if elem == EndKind && n > 0 {
		return nil, fmt.Errorf("%w: %d End elements", ErrListKind, n)
	}
	res := NewList(elem)
	res.Values = make([]*Node, 0, min(n, chunk/8))
	for range n {
		v, err := dc.readPayload(elem)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, v)
	}
	return res, nil
}

func (dc *decoder) readCompound() (*Node, error) {
	if err := dc.enter(); err != nil {
		return nil, err
	}
	defer func() { dc.depth-- }()
	res := NewCompound()
	for {
		k, err := dc.readKind()
		if err != nil {
			return nil, err
		}
		if k == EndKind {
			return res, nil
		}
		name, err := dc.readString()
		if err != nil {
			return nil, err
		}
		v, err := dc.readPayload(k)
		if err != nil {
			return nil, err
		}
		res.Put(name, v)
	}
}

type encoder struct {
	w     *bufio.Writer
	d     *binaryDialect
	buf   [binary.MaxVarintLen64]byte
	depth int
}

func (ec *encoder) writeKind(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, byte(k))
	}
	return ec.w.WriteByte(byte(k))
}

func (ec *encoder) writeShort(v int16) error {
	b := ec.buf[:2]
	ec.d.order.PutUint16(b, uint16(v))
	_, err := ec.w.Write(b)
	return err
}

func (ec *encoder) writeInt(v int32) error {
	if ec.d.varint {
		n := binary.PutVarint(ec.buf[:], int64(v))
		_, err := ec.w.Write(ec.buf[:n])
		return err
	}
	b := ec.buf[:4]
	ec.d.order.PutUint32(b, uint32(v))
	_, err := ec.w.Write(b)
	return err
}

func (ec *encoder) writeLong(v int64) error {
	if ec.d.varint {
		n := binary.PutVarint(ec.buf[:], v)
		_, err := ec.w.Write(ec.buf[:n])
		return err
	}
	b := ec.buf[:8]
	ec.d.order.PutUint64(b, uint64(v))
	_, err := ec.w.Write(b)
	return err
}

func (ec *encoder) writeLen(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements", ErrLength, n)
	}
	return ec.writeInt(int32(n))
}

func (ec *encoder) writeString(s string) error {
	if err := ec.d.checkString(s); err != nil {
		return err
	}
	b := []byte(s)
	if ec.d.mutf8 {
		b = encodeMUTF8(s)
	}
	if ec.d.varint {
		n := binary.PutUvarint(ec.buf[:], uint64(len(b)))
		if _, err := ec.w.Write(ec.buf[:n]); err != nil {
			return err
		}
	} else {
		if err := ec.writeShort(int16(uint16(len(b)))); err != nil {
			return err
		}
	}
	_, err := ec.w.Write(b)
	return err
}

func (ec *encoder) writePayload(n *Node) error {
	switch n.Kind {
	case ByteKind:
		return ec.w.WriteByte(byte(int8(n.Int)))
	case ShortKind:
		return ec.writeShort(int16(n.Int))
	case IntKind:
		return ec.writeInt(int32(n.Int))
	case LongKind:
		return ec.writeLong(n.Int)
	case FloatKind:
		b := ec.buf[:4]
		ec.d.order.PutUint32(b, math.Float32bits(float32(n.Float)))
		_, err := ec.w.Write(b)
		return err
	case DoubleKind:
		b := ec.buf[:8]
		ec.d.order.PutUint64(b, math.Float64bits(n.Float))
		_, err := ec.w.Write(b)
		return err
	case StringKind:
		return ec.writeString(n.String)
	case ByteArrayKind:
		if err := ec.writeLen(len(n.Bytes)); err != nil {
			return err
		}
		_, err := ec.w.Write(n.Bytes)
		return err
	case IntArrayKind:
		if err := ec.writeLen(len(n.Ints)); err != nil {
			return err
		}
		for _, v := range n.Ints {
			if err := ec.writeInt(v); err != nil {
				return err
			}
		}
		return nil
	case LongArrayKind:
		if err := ec.writeLen(len(n.Longs)); err != nil {
			return err
		}
		for _, v := range n.Longs {
			if err := ec.writeLong(v); err != nil {
				return err
			}
		}
		return nil
	case ListKind:
		return ec.writeList(n)
	case CompoundKind:
		return ec.writeCompound(n)
	}
	return fmt.Errorf("%w: %d", ErrUnknownKind, byte(n.Kind))
}

func (ec *encoder) enter() error {
	ec.depth++
	if ec.depth > MaxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrDepth, MaxDepth)
	}
	return nil
}

func (ec *encoder) writeList(n *Node) error {
	if err := ec.enter(); err != nil {
		return err
	}
	defer func() { ec.depth-- }()
	elem := n.ElemKind
	if elem == EndKind && len(n.Values) > 0 {
		elem = n.Values[0].Kind
	}
	for i, v := range n.Values {
		if v.Kind != elem {
			return fmt.Errorf("%w: element %d is %s in list of %s", ErrListKind, i, v.Kind, elem)
		}
	}
	if err := ec.writeKind(elem); err != nil {
		return err
	}
	if err := ec.writeLen(len(n.Values)); err != nil {
		return err
	}
	for _, v := range n.Values {
		if err := ec.writePayload(v); err != nil {
			return err
		}
	}
	return nil
}

func (ec *encoder) writeCompound(n *Node) error {
	if err := ec.enter(); err != nil {
		return err
	}
	defer func() { ec.depth-- }()
	if len(n.Names) != len(n.Values) {
		return fmt.Errorf("compound has %d names for %d values", len(n.Names), len(n.Values))
	}
	for i, v := range n.Values {
		if v == nil || v.Kind == EndKind {
			continue
		}
		if err := ec.writeKind(v.Kind); err != nil {
			return err
		}
		if err := ec.writeString(n.Names[i]); err != nil {
			return err
		}
		if err := ec.writePayload(v); err != nil {
			return err
		}
	}
	return ec.writeKind(EndKind)
}
