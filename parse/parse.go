package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/tagstore/debug"
	"github.com/signadot/tagstore/storage"
	"github.com/signadot/tagstore/tag"
)

type parseOpts struct {
	maxDepth int
}

type ParseOption func(*parseOpts)

// MaxDepth limits the nesting of compounds and lists. The default is
// tag.MaxDepth, so anything parsed can also be encoded.
func MaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}

// Parse parses an SNBT document, which must be a single compound.
func Parse(d []byte, opts ...ParseOption) (*storage.Storage, error) {
	v, err := parseDoc(d, opts)
	if err != nil {
		return nil, err
	}
	if v.Type != storage.CompoundType {
		return nil, fmt.Errorf("%w: got %s", ErrNotCompound, v.Type)
	}
	return v.Compound, nil
}

// ParseValue parses a single SNBT value of any type.
func ParseValue(s string, opts ...ParseOption) (*storage.Value, error) {
	return parseDoc([]byte(s), opts)
}

func parseDoc(d []byte, opts []ParseOption) (*storage.Value, error) {
	pOpts := &parseOpts{maxDepth: tag.MaxDepth}
	for _, f := range opts {
		f(pOpts)
	}
	p := &parser{d: d, opts: pOpts}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty document")
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after value", p.d[p.off])
	}
	if debug.Codec() {
		debug.Logf("parsed %d bytes to %s\n", len(d), v.Type)
	}
	return v, nil
}

type parser struct {
	d     []byte
	off   int
	depth int
	opts  *parseOpts
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrParse, posAt(p.d, p.off), fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool {
	return p.off >= len(p.d)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.d[p.off]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.d[p.off] {
		case ' ', '\t', '\n', '\r':
			p.off++
		default:
			return
		}
	}
}

// expect skips space and consumes c.
func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.eof() {
		return p.errorf("expected %q, got end of input", c)
	}
	if p.d[p.off] != c {
		return p.errorf("expected %q, got %q", c, p.d[p.off])
	}
	p.off++
	return nil
}

func isDelim(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':', ';', '"', '\'', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.opts.maxDepth {
		return fmt.Errorf("%w: %s: %w", ErrParse, posAt(p.d, p.off), tag.ErrDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) value() (*storage.Value, error) {
	p.skipSpace()
	switch c := p.peek(); c {
	case '{':
		return p.compound()
	case '[':
		return p.listOrArray()
	case '"', '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return storage.FromString(s), nil
	case 0:
		if p.eof() {
			return nil, p.errorf("expected a value, got end of input")
		}
	}
	start := p.off
	w := p.word()
	if w == "" {
		return nil, p.errorf("expected a value, got %q", p.peek())
	}
	v, err := bare(w)
	if err != nil {
		p.off = start
		return nil, fmt.Errorf("%w: %s: %q", err, posAt(p.d, start), w)
	}
	return v, nil
}

func (p *parser) word() string {
	start := p.off
	for !p.eof() && !isDelim(p.d[p.off]) {
		p.off++
	}
	return string(p.d[start:p.off])
}

// quoted reads a string in double or single quotes. Double quoted strings
// use Go escapes. Single quoted ones only escape \\ and \'.
func (p *parser) quoted() (string, error) {
	start := p.off
	q := p.d[p.off]
	p.off++
	for !p.eof() {
		switch p.d[p.off] {
		case '\\':
			p.off += 2
			continue
		case q:
			p.off++
			raw := string(p.d[start:p.off])
			if q == '"' {
				s, err := strconv.Unquote(raw)
				if err != nil {
					p.off = start
					return "", p.errorf("bad string %s: %v", raw, err)
				}
				return s, nil
			}
			return unquoteSingle(raw[1 : len(raw)-1]), nil
		case '\n':
			if q == '"' {
				p.off = start
				return "", p.errorf("newline in string")
			}
		}
		p.off++
	}
	p.off = start
	return "", p.errorf("unterminated string")
}

func unquoteSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	b := strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (p *parser) key() (string, error) {
	p.skipSpace()
	switch p.peek() {
	case '"', '\'':
		return p.quoted()
	}
	w := p.word()
	if w == "" {
		if p.eof() {
			return "", p.errorf("expected a name, got end of input")
		}
		return "", p.errorf("expected a name, got %q", p.peek())
	}
	return w, nil
}

// compound parses {name: value, ...}. A trailing comma is allowed. A
// repeated name keeps its last value.
func (p *parser) compound() (*storage.Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.off++
	s := storage.New()
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.off++
			return storage.FromCompound(s), nil
		}
		k, err := p.key()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		s.SetEntry(k, v)
		done, err := p.sep('}')
		if err != nil {
			return nil, err
		}
		if done {
			return storage.FromCompound(s), nil
		}
	}
}

// sep consumes a ',' or the closing byte, reporting whether it was the
// closing one.
func (p *parser) sep(closing byte) (bool, error) {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.off++
		return false, nil
	case closing:
		p.off++
		return true, nil
	}
	if p.eof() {
		return false, p.errorf("expected ',' or %q, got end of input", closing)
	}
	return false, p.errorf("expected ',' or %q, got %q", closing, p.peek())
}

func (p *parser) listOrArray() (*storage.Value, error) {
	save := p.off
	p.off++
	p.skipSpace()
	if c := p.peek(); c == 'B' || c == 'I' || c == 'L' {
		p.off++
		p.skipSpace()
		if p.peek() == ';' {
			p.off++
			return p.array(c)
		}
	}
	p.off = save
	return p.list()
}

func (p *parser) list() (*storage.Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.off++
	vs := []*storage.Value{}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.off++
			return storage.FromList(vs...), nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
		done, err := p.sep(']')
		if err != nil {
			return nil, err
		}
		if done {
			return storage.FromList(vs...), nil
		}
	}
}

// array parses the elements of [B; ...], [I; ...] or [L; ...] after the
// ';'. Elements may carry the suffix matching the array kind.
func (p *parser) array(kind byte) (*storage.Value, error) {
	var (
		bs []byte
		is []int32
		ls []int64
	)
	bits, suffix := map[byte]int{'B': 8, 'I': 32, 'L': 64}[kind], map[byte]string{'B': "b", 'L': "l"}[kind]
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.off++
			break
		}
		start := p.off
		w := p.word()
		digits := w
		if suffix != "" && len(w) > 1 && strings.EqualFold(w[len(w)-1:], suffix) {
			digits = w[:len(w)-1]
		}
		if !intPat.MatchString(digits) {
			p.off = start
			return nil, p.errorf("bad %c array element %q", kind, w)
		}
		n, err := strconv.ParseInt(digits, 10, bits)
		if err != nil {
			p.off = start
			return nil, fmt.Errorf("%w: %s: %q", ErrRange, posAt(p.d, start), w)
		}
		switch kind {
		case 'B':
			bs = append(bs, byte(n))
		case 'I':
			is = append(is, int32(n))
		case 'L':
			ls = append(ls, n)
		}
		done, err := p.sep(']')
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	switch kind {
	case 'B':
		if bs == nil {
			bs = []byte{}
		}
		return storage.FromByteArray(bs), nil
	case 'I':
		if is == nil {
			is = []int32{}
		}
		return storage.FromIntArray(is), nil
	default:
		if ls == nil {
			ls = []int64{}
		}
		return storage.FromLongArray(ls), nil
	}
}

var (
	intPat   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatPat = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`)
)

func isFloat(s string) bool {
	switch strings.TrimLeft(s, "+-") {
	case "NaN", "Infinity":
		return true
	}
	return floatPat.MatchString(s)
}

// bare interprets an unquoted word. Numbers take their type from the
// suffix: b, s, L, f and d (either case) for Byte, Short, Long, Float and
// Double. Without a suffix an integer is an Int and a decimal a Double.
// true and false are the Bytes 1 and 0. Any other word is a String.
func bare(w string) (*storage.Value, error) {
	switch {
	case strings.EqualFold(w, "true"):
		return storage.FromByte(1), nil
	case strings.EqualFold(w, "false"):
		return storage.FromByte(0), nil
	}
	if intPat.MatchString(w) {
		n, err := strconv.ParseInt(w, 10, 32)
		if err != nil {
			return nil, ErrRange
		}
		return storage.FromInt(int32(n)), nil
	}
	if len(w) > 1 {
		digits := w[:len(w)-1]
		switch w[len(w)-1] {
		case 'b', 'B':
			if intPat.MatchString(digits) {
				n, err := strconv.ParseInt(digits, 10, 8)
				if err != nil {
					return nil, ErrRange
				}
				return storage.FromByte(int8(n)), nil
			}
		case 's', 'S':
			if intPat.MatchString(digits) {
				n, err := strconv.ParseInt(digits, 10, 16)
				if err != nil {
					return nil, ErrRange
				}
				return storage.FromShort(int16(n)), nil
			}
		case 'l', 'L':
			if intPat.MatchString(digits) {
				n, err := strconv.ParseInt(digits, 10, 64)
				if err != nil {
					return nil, ErrRange
				}
				return storage.FromLong(n), nil
			}
		case 'f', 'F':
			if isFloat(digits) {
				f, err := strconv.ParseFloat(digits, 32)
				if err != nil {
					return nil, ErrRange
				}
				return storage.FromFloat(float32(f)), nil
			}
		case 'd', 'D':
			if isFloat(digits) {
				f, err := strconv.ParseFloat(digits, 64)
				if err != nil {
					return nil, ErrRange
				}
				return storage.FromDouble(f), nil
			}
		}
	}
	if floatPat.MatchString(w) {
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, ErrRange
		}
		return storage.FromDouble(f), nil
	}
	return storage.FromString(w), nil
}
