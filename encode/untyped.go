package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tagstore/storage"
)

// JSON and YAML have no numeric widths, so these renderings lose the
// value types. Byte arrays are written as lists of signed numbers and
// non-finite floats as the strings NaN, Infinity and -Infinity.

func encodeJSON(v *storage.Value, w io.Writer, es *EncState) error {
	x, err := plainer{}.value(v, "")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if es.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", es.indent))
	}
	if err := enc.Encode(x); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return nil
}

func encodeYAML(v *storage.Value, w io.Writer, es *EncState) error {
	x, err := plainer{ordered: true}.value(v, "")
	if err != nil {
		return err
	}
	var yopts []yaml.EncodeOption
	if es.indent > 0 {
		yopts = append(yopts, yaml.Indent(es.indent), yaml.IndentSequence(true))
	} else {
		yopts = append(yopts, yaml.Flow(true))
	}
	d, err := yaml.MarshalWithOptions(x, yopts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(d) == 0 || d[len(d)-1] != '\n' {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}

// plainer converts values to plain Go values for the untyped encoders.
type plainer struct {
	// ordered makes compounds yaml.MapSlices in key order instead of maps.
	ordered bool
}

func (p plainer) compound(s *storage.Storage, path string) (any, error) {
	var (
		m  map[string]any
		ms yaml.MapSlice
	)
	if p.ordered {
		ms = make(yaml.MapSlice, 0, s.Len())
	} else {
		m = make(map[string]any, s.Len())
	}
	for _, k := range s.Keys() {
		e, _ := s.Entry(k)
		kp := k
		if path != "" {
			kp = path + "." + k
		}
		x, err := p.value(e, kp)
		if err != nil {
			return nil, err
		}
		if p.ordered {
			ms = append(ms, yaml.MapItem{Key: k, Value: x})
		} else {
			m[k] = x
		}
	}
	if p.ordered {
		return ms, nil
	}
	return m, nil
}

func (p plainer) value(v *storage.Value, path string) (any, error) {
	if v == nil {
		return nil, unrepresentable(path, "nil value")
	}
	switch v.Type {
	case storage.ByteType, storage.ShortType, storage.IntType, storage.LongType:
		return v.Int, nil
	case storage.FloatType, storage.DoubleType:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return FormatFloat(v.Float, 64), nil
		}
		return v.Float, nil
	case storage.StringType:
		return v.String, nil
	case storage.ByteArrayType:
		res := make([]int64, len(v.Bytes))
		for i, b := range v.Bytes {
			res[i] = int64(int8(b))
		}
		return res, nil
	case storage.IntArrayType:
		res := make([]int64, len(v.Ints))
		for i, x := range v.Ints {
			res[i] = int64(x)
		}
		return res, nil
	case storage.LongArrayType:
		if v.Longs == nil {
			return []int64{}, nil
		}
		return v.Longs, nil
	case storage.ListType:
		res := make([]any, len(v.List))
		for i, e := range v.List {
			x, err := p.value(e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case storage.CompoundType:
		if v.Compound == nil {
			return nil, unrepresentable(path, "nil compound")
		}
		return p.compound(v.Compound, path)
	}
	return nil, unrepresentable(path, v.Type.String())
}
