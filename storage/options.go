package storage

import (
	"log/slog"

	"github.com/signadot/tagstore/tag"
)

// Option configures encoding and persistence.
type Option func(*options)

type options struct {
	dialect     tag.Dialect
	compression tag.Compression
	rootName    string
	logger      *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		dialect:     tag.BigEndian,
		compression: tag.Gzip,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.dialect == nil {
		o.dialect = tag.BigEndian
	}
	return o
}

// WithDialect selects the binary layout. The default is tag.BigEndian.
func WithDialect(d tag.Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithCompression selects the compression of compressed saves and loads.
// The default is tag.Gzip.
func WithCompression(c tag.Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithRootName sets the name written for the root compound.
func WithRootName(name string) Option {
	return func(o *options) { o.rootName = name }
}

// WithLogger sets the logger that reports values dropped while encoding.
// If logger is nil, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}
