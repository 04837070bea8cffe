package tag

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// Compression is a byte stream stage wrapped around a dialect.
type Compression int

const (
	None Compression = iota
	Gzip
	Zlib
	Snappy
)

func ParseCompression(v string) (Compression, error) {
	c, ok := map[string]Compression{
		"none":   None,
		"raw":    None,
		"gzip":   Gzip,
		"gz":     Gzip,
		"zlib":   Zlib,
		"snappy": Snappy,
		"sz":     Snappy,
	}[v]
	if ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadCompression, v)
}

func (c Compression) String() string {
	d, err := c.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (c Compression) MarshalText() ([]byte, error) {
	switch c {
	case None:
		return []byte("none"), nil
	case Gzip:
		return []byte("gzip"), nil
	case Zlib:
		return []byte("zlib"), nil
	case Snappy:
		return []byte("snappy"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a compression>", int(c))
	}
}

func (c *Compression) UnmarshalText(d []byte) error {
	pc, err := ParseCompression(string(d))
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

// NewWriter wraps w. The caller must Close the result to flush it; closing
// does not close w.
func (c Compression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zlib:
		return zlib.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadCompression, int(c))
}

// NewReader wraps r. Closing the result does not close r.
func (c Compression) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Zlib:
		return zlib.NewReader(r)
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrBadCompression, int(c))
}

var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// DetectCompression guesses the compression of a stream from its first
// bytes. Anything unrecognised is None.
func DetectCompression(header []byte) Compression {
	switch {
	case len(header) >= 2 && header[0] == 0x1f && header[1] == 0x8b:
		return Gzip
	case bytes.HasPrefix(header, snappyMagic):
		return Snappy
	case len(header) >= 2 && header[0]&0x0f == 8 && (uint16(header[0])<<8|uint16(header[1]))%31 == 0:
		return Zlib
	}
	return None
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
