package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/tagstore/storage"
)

// MustString returns the one-line SNBT rendering of v. It panics if v
// cannot be rendered.
func MustString(v *storage.Value) string {
	buf := bytes.NewBuffer(nil)
	if err := EncodeValue(v, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
