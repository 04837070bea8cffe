package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/tagstore/encode"
	"github.com/signadot/tagstore/format"
	"github.com/signadot/tagstore/tag"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	Indent  int    `cli:"name=indent desc='spaces per nesting level, 0 for one line'"`
	Config  string `cli:"name=config desc='TOML file of option defaults'"`
	Verbose bool   `cli:"name=v desc='log debug messages'"`

	Dialect     tag.Dialect
	Compression *tag.Compression
	OutFormat   *format.Format
	// ColorFixed is set when the config file chose colors, which turns
	// off terminal detection like -color does.
	ColorFixed bool

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) dialectFunc(_ *cli.Context, v string) (any, error) {
	d, err := tag.ParseDialect(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Dialect = d
	return d, nil
}

func (cfg *MainConfig) compressionFunc(_ *cli.Context, v string) (any, error) {
	c, err := tag.ParseCompression(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Compression = &c
	return c, nil
}

// optSet reports whether the named option of cmd was given on the
// command line.
func optSet(cmd *cli.Command, name string) bool {
	if cmd == nil {
		return false
	}
	for _, opt := range cmd.Opts {
		if opt.Name != name {
			continue
		}
		return opt.Value != nil
	}
	return false
}

func (cfg *MainConfig) dialect() tag.Dialect {
	if cfg.Dialect == nil {
		return tag.BigEndian
	}
	return cfg.Dialect
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.SNBTFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
		encode.Indent(cfg.Indent),
	}
	if cfg.useColor(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// useColor reports whether output to w is colored: when -color or the
// config says so, or else when w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.ColorFixed || optSet(cfg.Main, "color") {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig
	String bool `cli:"name=s desc='take the value as a plain string'"`

	Set *cli.Command
}

type RmConfig struct {
	*MainConfig

	Rm *cli.Command
}

type KeysConfig struct {
	*MainConfig
	Recursive bool `cli:"name=r desc='list every path with its type'"`

	Keys *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	ToDialect tag.Dialect

	Convert *cli.Command
}

func (cfg *ConvertConfig) toDialectFunc(_ *cli.Context, v string) (any, error) {
	d, err := tag.ParseDialect(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.ToDialect = d
	return d, nil
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Text    bool `cli:"name=text desc='diff the text renderings line by line'"`

	Diff *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='print nothing, only set the exit code'"`

	Check *cli.Command
}

type StatConfig struct {
	*MainConfig

	Stat *cli.Command
}
