package encode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/tagstore/format"
	"github.com/signadot/tagstore/storage"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	format format.Format
	indent int
	depth  int
	Color  func(storage.Type, ColorAttr, string) string
}

// Encode writes s to w in the configured format, SNBT by default. A nil s
// is written as an empty compound.
func Encode(s *storage.Storage, w io.Writer, opts ...EncodeOption) error {
	if s == nil {
		s = storage.New()
	}
	return EncodeValue(storage.FromCompound(s), w, opts...)
}

// EncodeValue writes a single value. The output ends with a newline.
func EncodeValue(v *storage.Value, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.JSONFormat:
		return encodeJSON(v, w, es)
	case format.YAMLFormat:
		return encodeYAML(v, w, es)
	case format.SNBTFormat:
	default:
		return fmt.Errorf("%w: %w: %d", ErrEncoding, format.ErrBadFormat, es.format)
	}
	bw := bufio.NewWriter(w)
	if err := encode(v, "", bw, es); err != nil {
		return err
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func unrepresentable(path, what string) error {
	return fmt.Errorf("%w: %w: %s at %q", ErrEncoding, storage.ErrUnrepresentableValue, what, path)
}

// Helper functions for writing

func writeNL(w *bufio.Writer, es *EncState) {
	if es.indent == 0 {
		return
	}
	w.WriteString("\n" + strings.Repeat(" ", es.indent*es.depth))
}

func applyColor(es *EncState, t storage.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

func writeSep(w *bufio.Writer, es *EncState, t storage.Type, sep string) {
	w.WriteString(applyColor(es, t, SepColor, sep))
}

func writeComma(w *bufio.Writer, es *EncState, t storage.Type) {
	writeSep(w, es, t, ",")
}

// writeNumber writes digits followed by the type suffix, if any.
func writeNumber(w *bufio.Writer, es *EncState, t storage.Type, digits, suffix string) {
	w.WriteString(applyColor(es, t, ValueColor, digits))
	if suffix != "" {
		w.WriteString(applyColor(es, t, SuffixColor, suffix))
	}
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)

// QuoteKey returns name as it appears before the ':' of a compound entry.
func QuoteKey(name string) string {
	if bareKey.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}

// FormatFloat renders f without its suffix. Non-finite values use the
// spellings NaN, Infinity and -Infinity.
func FormatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// Main encode function

func encode(v *storage.Value, path string, w *bufio.Writer, es *EncState) error {
	if v == nil {
		return unrepresentable(path, "nil value")
	}
	switch v.Type {
	case storage.ByteType:
		writeNumber(w, es, v.Type, strconv.FormatInt(v.Int, 10), "b")
	case storage.ShortType:
		writeNumber(w, es, v.Type, strconv.FormatInt(v.Int, 10), "s")
	case storage.IntType:
		writeNumber(w, es, v.Type, strconv.FormatInt(v.Int, 10), "")
	case storage.LongType:
		writeNumber(w, es, v.Type, strconv.FormatInt(v.Int, 10), "L")
	case storage.FloatType:
		writeNumber(w, es, v.Type, FormatFloat(v.Float, 32), "f")
	case storage.DoubleType:
		writeNumber(w, es, v.Type, FormatFloat(v.Float, 64), "d")
	case storage.StringType:
		w.WriteString(applyColor(es, v.Type, ValueColor, strconv.Quote(v.String)))
	case storage.ByteArrayType:
		encodeArray(w, es, v.Type, "B", len(v.Bytes), func(i int) (string, string) {
			return strconv.Itoa(int(int8(v.Bytes[i]))), "b"
		})
	case storage.IntArrayType:
		encodeArray(w, es, v.Type, "I", len(v.Ints), func(i int) (string, string) {
			return strconv.FormatInt(int64(v.Ints[i]), 10), ""
		})
	case storage.LongArrayType:
		encodeArray(w, es, v.Type, "L", len(v.Longs), func(i int) (string, string) {
			return strconv.FormatInt(v.Longs[i], 10), "L"
		})
	case storage.ListType:
		return encodeList(v.List, path, w, es)
	case storage.CompoundType:
		if v.Compound == nil {
			return unrepresentable(path, "nil compound")
		}
		return encodeCompound(v.Compound, path, w, es)
	default:
		return unrepresentable(path, v.Type.String())
	}
	return nil
}

// encodeArray writes a typed array such as [I; 1, 2]. Arrays stay on one
// line at any indent.
func encodeArray(w *bufio.Writer, es *EncState, t storage.Type, prefix string, n int, elt func(int) (string, string)) {
	writeSep(w, es, t, "[")
	w.WriteString(applyColor(es, t, SuffixColor, prefix))
	writeSep(w, es, t, ";")
	for i := range n {
		if i > 0 {
			writeComma(w, es, t)
		}
		if es.indent > 0 {
			w.WriteString(" ")
		}
		digits, suffix := elt(i)
		writeNumber(w, es, t, digits, suffix)
	}
	writeSep(w, es, t, "]")
}

func encodeList(vs []*storage.Value, path string, w *bufio.Writer, es *EncState) error {
	if len(vs) == 0 {
		writeSep(w, es, storage.ListType, "[]")
		return nil
	}
	multiLine := false
	for _, e := range vs {
		if e != nil && (e.Type == storage.ListType || e.Type == storage.CompoundType) {
			multiLine = true
			break
		}
	}
	writeSep(w, es, storage.ListType, "[")
	es.depth++
	for i, e := range vs {
		if i > 0 {
			writeComma(w, es, storage.ListType)
			if !multiLine && es.indent > 0 {
				w.WriteString(" ")
			}
		}
		if multiLine {
			writeNL(w, es)
		}
		if err := encode(e, fmt.Sprintf("%s[%d]", path, i), w, es); err != nil {
			return err
		}
	}
	es.depth--
	if multiLine {
		writeNL(w, es)
	}
	writeSep(w, es, storage.ListType, "]")
	return nil
}

func encodeCompound(s *storage.Storage, path string, w *bufio.Writer, es *EncState) error {
	keys := s.Keys()
	if len(keys) == 0 {
		writeSep(w, es, storage.CompoundType, "{}")
		return nil
	}
	writeSep(w, es, storage.CompoundType, "{")
	es.depth++
	for i, k := range keys {
		if i > 0 {
			writeComma(w, es, storage.CompoundType)
		}
		writeNL(w, es)
		w.WriteString(applyColor(es, storage.CompoundType, FieldColor, QuoteKey(k)))
		writeSep(w, es, storage.CompoundType, ":")
		if es.indent > 0 {
			w.WriteString(" ")
		}
		v, _ := s.Entry(k)
		p := k
		if path != "" {
			p = path + "." + k
		}
		if err := encode(v, p, w, es); err != nil {
			return err
		}
	}
	es.depth--
	writeNL(w, es)
	writeSep(w, es, storage.CompoundType, "}")
	return nil
}
