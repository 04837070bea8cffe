package encode

import (
	"strings"

	"github.com/signadot/tagstore/storage"

	"github.com/fatih/color"
)

type Colorable struct {
	Type storage.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
	SuffixColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range storage.Types() {
		able := Colorable{Type: t, Attr: SepColor}
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = SuffixColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}
	for _, t := range []storage.Type{
		storage.ByteType, storage.ShortType, storage.IntType, storage.LongType,
		storage.ByteArrayType, storage.IntArrayType, storage.LongArrayType,
	} {
		able.Type = t
		colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	}
	for _, t := range []storage.Type{storage.FloatType, storage.DoubleType} {
		able.Type = t
		colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	}
	able.Type = storage.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Type = storage.CompoundType
	able.Attr = FieldColor
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = SepColor
	colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()

	able.Type = storage.ListType
	colors.Map[able] = color.CyanString

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t storage.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t storage.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
