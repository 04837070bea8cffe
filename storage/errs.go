package storage

import "errors"

var (
	// ErrUnsupportedTagKind is returned when a tag tree holds a kind no
	// Value can represent. Decoding stops there.
	ErrUnsupportedTagKind = errors.New("unsupported tag kind")

	// ErrUnrepresentableValue describes a Value that has no tag mapping.
	// Encoding logs it, drops the value and carries on.
	ErrUnrepresentableValue = errors.New("unrepresentable value")

	// ErrIO wraps filesystem failures of the persistence functions.
	ErrIO = errors.New("io failure")

	// ErrDecode wraps errors decoding persisted data.
	ErrDecode = errors.New("decode failure")
)
