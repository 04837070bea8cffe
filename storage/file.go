package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signadot/tagstore/debug"
	"github.com/signadot/tagstore/tag"
)

// Marshal encodes s with the configured dialect and compression.
func (s *Storage) Marshal(opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	return s.marshal(o, o.compression)
}

func (s *Storage) marshal(o *options, c tag.Compression) ([]byte, error) {
	root := (&encoder{opts: o, depth: 1}).compound(s, "")
	buf := bytes.NewBuffer(nil)
	zw, err := c.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if err := o.dialect.Encode(zw, root, o.rootName); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data written by Marshal or any of the Save functions
// in the configured dialect. The compression is detected from the data.
func Unmarshal(data []byte, opts ...Option) (*Storage, error) {
	o := newOptions(opts)
	res, err := unmarshal(data, o, tag.DetectCompression(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return res, nil
}

func unmarshal(data []byte, o *options, c tag.Compression) (*Storage, error) {
	root, err := tag.UnmarshalCompressed(o.dialect, c, data)
	if err != nil {
		return nil, kindError(err)
	}
	return FromTag(root)
}

// Decode reads one root compound in dialect d from r and returns it with
// its root name. Errors wrap ErrDecode.
func Decode(r io.Reader, d tag.Dialect) (*Storage, string, error) {
	root, name, err := d.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, kindError(err))
	}
	s, err := FromTag(root)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return s, name, nil
}

// kindError marks tag kinds the decoder does not know as
// ErrUnsupportedTagKind.
func kindError(err error) error {
	if errors.Is(err, tag.ErrUnknownKind) {
		return fmt.Errorf("%w: %w", ErrUnsupportedTagKind, err)
	}
	return err
}

// SaveCompressed writes s to path, compressed with gzip or the compression
// chosen with WithCompression.
func (s *Storage) SaveCompressed(path string, opts ...Option) error {
	o := newOptions(opts)
	return s.save(path, o, compressed(o))
}

// SaveUncompressed writes s to path without compression.
func (s *Storage) SaveUncompressed(path string, opts ...Option) error {
	return s.save(path, newOptions(opts), tag.None)
}

// Save writes s to path with the configured compression, which may be
// tag.None.
func (s *Storage) Save(path string, opts ...Option) error {
	o := newOptions(opts)
	return s.save(path, o, o.compression)
}

// LoadCompressed reads a Storage written by SaveCompressed with the same
// options.
func LoadCompressed(path string, opts ...Option) (*Storage, error) {
	o := newOptions(opts)
	return load(path, o, func([]byte) tag.Compression { return compressed(o) })
}

// LoadUncompressed reads a Storage written by SaveUncompressed.
func LoadUncompressed(path string, opts ...Option) (*Storage, error) {
	return load(path, newOptions(opts), func([]byte) tag.Compression { return tag.None })
}

// Load reads a Storage from path, detecting its compression.
func Load(path string, opts ...Option) (*Storage, error) {
	return load(path, newOptions(opts), tag.DetectCompression)
}

func compressed(o *options) tag.Compression {
	if o.compression == tag.None {
		return tag.Gzip
	}
	return o.compression
}

// save writes to path.tmp and renames it to path, so a failed save leaves
// any previous file in place.
func (s *Storage) save(path string, o *options, c tag.Compression) error {
	d, err := s.marshal(o, c)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if debug.File() {
		debug.Logf("save %s: %d bytes, %s, %s\n", path, len(d), o.dialect, c)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, d, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func load(path string, o *options, detect func([]byte) tag.Compression) (*Storage, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	c := detect(d)
	if debug.File() {
		debug.Logf("load %s: %d bytes, %s, %s\n", path, len(d), o.dialect, c)
	}
	res, err := unmarshal(d, o, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return res, nil
}
