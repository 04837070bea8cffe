package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse       = errors.New("parse error")
	ErrNotCompound = fmt.Errorf("%w: document is not a compound", ErrParse)
	ErrRange       = fmt.Errorf("%w: number out of range", ErrParse)
)
