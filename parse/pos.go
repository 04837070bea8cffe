package parse

import (
	"bytes"
	"fmt"
)

// Pos is a 1-based line and column in a parsed document.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

func posAt(d []byte, off int) Pos {
	off = min(off, len(d))
	pre := d[:off]
	line := bytes.Count(pre, []byte{'\n'}) + 1
	col := off - bytes.LastIndexByte(pre, '\n')
	return Pos{Line: line, Col: col}
}
