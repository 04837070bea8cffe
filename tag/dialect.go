package tag

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Dialect is one binary layout of a tag tree. A stream holds a single named
// root node.
type Dialect interface {
	fmt.Stringer

	// Decode reads one root node and returns it with its name.
	Decode(r io.Reader) (*Node, string, error)
	// Encode writes n as the root node called name.
	Encode(w io.Writer, n *Node, name string) error
}

var (
	// BigEndian is the layout used by Java edition files: fixed width
	// big-endian numbers and modified UTF-8 strings.
	BigEndian Dialect = &binaryDialect{name: "big-endian", order: binary.BigEndian, mutf8: true}

	// LittleEndian is the Bedrock edition disk layout.
	LittleEndian Dialect = &binaryDialect{name: "little-endian", order: binary.LittleEndian}

	// NetworkLittleEndian is the Bedrock edition network layout, where
	// ints, longs and lengths are zig-zag varints.
	NetworkLittleEndian Dialect = &binaryDialect{name: "network", order: binary.LittleEndian, varint: true}
)

// Dialects lists the supported dialects.
func Dialects() []Dialect {
	return []Dialect{BigEndian, LittleEndian, NetworkLittleEndian}
}

// ParseDialect looks a dialect up by name.
func ParseDialect(v string) (Dialect, error) {
	d, ok := map[string]Dialect{
		"big-endian":    BigEndian,
		"be":            BigEndian,
		"java":          BigEndian,
		"little-endian": LittleEndian,
		"le":            LittleEndian,
		"bedrock":       LittleEndian,
		"network":       NetworkLittleEndian,
		"varint":        NetworkLittleEndian,
	}[v]
	if ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadDialect, v)
}

// CheckString reports whether d can write s as a string value or a name.
// It fails with ErrLength when s is longer than d's length prefix allows
// and with ErrString when d cannot represent s, as for invalid UTF-8 in
// modified UTF-8 dialects.
func CheckString(d Dialect, s string) error {
	bd, ok := d.(*binaryDialect)
	if !ok {
		return nil
	}
	return bd.checkString(s)
}

// Marshal encodes n as an unnamed root with dialect d.
func Marshal(d Dialect, n *Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := d.Encode(buf, n, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a root node from data with dialect d.
func Unmarshal(d Dialect, data []byte) (*Node, error) {
	n, _, err := d.Decode(bytes.NewReader(data))
	return n, err
}

// MarshalCompressed is Marshal followed by compression c.
func MarshalCompressed(d Dialect, c Compression, n *Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w, err := c.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if err := d.Encode(w, n, ""); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCompressed undoes MarshalCompressed.
func UnmarshalCompressed(d Dialect, c Compression, data []byte) (*Node, error) {
	r, err := c.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	n, _, err := d.Decode(r)
	return n, err
}
