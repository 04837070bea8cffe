package tag

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown tag kind")
	ErrListKind       = errors.New("list element kind mismatch")
	ErrDepth          = errors.New("tag tree nested too deeply")
	ErrLength         = errors.New("invalid length")
	ErrString         = errors.New("string not encodable")
	ErrRoot           = errors.New("root tag is not a compound")
	ErrBadDialect     = errors.New("bad dialect")
	ErrBadCompression = errors.New("bad compression")
)
