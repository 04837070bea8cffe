package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tagstore/format"
	"github.com/signadot/tagstore/tag"
)

func tagtoolMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	if err := cfg.loadConfig(); err != nil {
		return err
	}
	if cfg.Color {
		color.NoColor = false
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// fileConfig holds option defaults read from a TOML file, for example
//
//	dialect = "little-endian"
//	compression = "zlib"
//	format = "yaml"
//	indent = 4
//	color = false
type fileConfig struct {
	Dialect     string `toml:"dialect"`
	Compression string `toml:"compression"`
	Format      string `toml:"format"`
	Indent      *int   `toml:"indent"`
	Color       *bool  `toml:"color"`
}

const configEnv = "TAGTOOL_CONFIG"

func readFileConfig(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	md, err := toml.DecodeFile(path, fc)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) != 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: config %s: unknown keys %s", cli.ErrUsage, path, strings.Join(keys, ", "))
	}
	return fc, nil
}

// loadConfig fills in options not given on the command line from the
// -config file, or the file named by $TAGTOOL_CONFIG.
func (cfg *MainConfig) loadConfig() error {
	path := cfg.Config
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return nil
	}
	fc, err := readFileConfig(path)
	if err != nil {
		return err
	}
	theLog.Debug("loaded config", "path", path)
	return cfg.applyFileConfig(fc, func(name string) bool {
		return optSet(cfg.Main, name)
	})
}

func (cfg *MainConfig) applyFileConfig(fc *fileConfig, set func(string) bool) error {
	if fc.Dialect != "" && cfg.Dialect == nil {
		d, err := tag.ParseDialect(fc.Dialect)
		if err != nil {
			return fmt.Errorf("%w: config: %w", cli.ErrUsage, err)
		}
		cfg.Dialect = d
	}
	if fc.Compression != "" && cfg.Compression == nil {
		c, err := tag.ParseCompression(fc.Compression)
		if err != nil {
			return fmt.Errorf("%w: config: %w", cli.ErrUsage, err)
		}
		cfg.Compression = &c
	}
	if fc.Format != "" && cfg.OutFormat == nil {
		f, err := format.ParseFormat(fc.Format)
		if err != nil {
			return fmt.Errorf("%w: config: %w", cli.ErrUsage, err)
		}
		cfg.OutFormat = &f
	}
	if fc.Indent != nil && !set("indent") {
		cfg.Indent = max(*fc.Indent, 0)
	}
	if fc.Color != nil && !set("color") {
		cfg.Color = *fc.Color
		cfg.ColorFixed = true
	}
	return nil
}
