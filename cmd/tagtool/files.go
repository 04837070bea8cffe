package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/tagstore/encode"
	"github.com/signadot/tagstore/format"
	"github.com/signadot/tagstore/parse"
	"github.com/signadot/tagstore/storage"
	"github.com/signadot/tagstore/tag"
)

// tagFile is a storage read from a file along with how it was stored, so
// that edits can be written back the same way.
type tagFile struct {
	Path string
	// Text is set for SNBT files.
	Text        bool
	Dialect     tag.Dialect
	Compression tag.Compression
	RootName    string
	// Size and RawSize are the sizes of the file and of the uncompressed
	// tag data.
	Size, RawSize int

	S *storage.Storage
}

// textFormat returns the text format named by path's extension.
func textFormat(path string) (format.Format, bool) {
	for _, f := range []format.Format{format.SNBTFormat, format.JSONFormat, format.YAMLFormat} {
		if strings.HasSuffix(path, f.Suffix()) {
			return f, true
		}
	}
	return 0, false
}

// readTagFile reads path, or in when path is "-". Binary files may use
// any compression; the dialect comes from -d or the config.
func (cfg *MainConfig) readTagFile(in io.Reader, path string) (*tagFile, error) {
	var (
		d   []byte
		err error
	)
	if path == "-" {
		d, err = io.ReadAll(in)
	} else {
		d, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrIO, err)
	}
	tf := &tagFile{Path: path, Size: len(d), RawSize: len(d), Dialect: cfg.dialect()}
	if f, ok := textFormat(path); ok {
		if f != format.SNBTFormat {
			return nil, fmt.Errorf("cannot read %s: %s text does not keep value types", path, f)
		}
		tf.Text = true
		tf.S, err = parse.Parse(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return tf, nil
	}
	tf.Compression = tag.DetectCompression(d)
	zr, err := tf.Compression.NewReader(bytes.NewReader(d))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrDecode, path, err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrDecode, path, err)
	}
	tf.RawSize = len(raw)
	tf.S, tf.RootName, err = storage.Decode(bytes.NewReader(raw), tf.Dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	theLog.Debug("read", "path", path, "dialect", tf.Dialect, "compression", tf.Compression, "size", tf.Size)
	return tf, nil
}

// writeTagFile writes tf.S to path. A text extension selects a text
// format. Otherwise tf's dialect, compression and root name are used,
// with -z overriding the compression.
func (cfg *MainConfig) writeTagFile(tf *tagFile, path string) error {
	if f, ok := textFormat(path); ok {
		buf := bytes.NewBuffer(nil)
		if err := encode.Encode(tf.S, buf, encode.EncodeFormat(f), encode.Indent(cfg.Indent)); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrIO, err)
		}
		return nil
	}
	c := tf.Compression
	if cfg.Compression != nil {
		c = *cfg.Compression
	} else if tf.Text {
		c = tag.Gzip
	}
	theLog.Debug("write", "path", path, "dialect", tf.Dialect, "compression", c)
	return tf.S.Save(path,
		storage.WithDialect(tf.Dialect),
		storage.WithCompression(c),
		storage.WithRootName(tf.RootName),
		storage.WithLogger(theLog))
}
