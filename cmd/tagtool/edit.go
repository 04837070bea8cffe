package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/signadot/tagstore/parse"
	"github.com/signadot/tagstore/storage"
	"github.com/signadot/tagstore/tag"

	"github.com/scott-cotton/cli"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: set requires a path, a value and a file, got %v", cli.ErrUsage, args)
	}
	return setFile(cfg.MainConfig, cc.In, args[0], args[1], args[2], cfg.String)
}

// setFile stores the value text at path in file, creating a gzipped file
// if there is none. The text is SNBT unless asString is set.
func setFile(cfg *MainConfig, in io.Reader, path, text, file string, asString bool) error {
	var v *storage.Value
	if asString {
		v = storage.FromString(text)
	} else {
		var err error
		v, err = parse.ParseValue(text)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	tf, err := cfg.readTagFile(in, file)
	if errors.Is(err, fs.ErrNotExist) {
		theLog.Debug("creating", "file", file)
		tf = &tagFile{Path: file, Dialect: cfg.dialect(), Compression: tag.Gzip, S: storage.New()}
	} else if err != nil {
		return err
	}
	tf.S.SetValue(path, v)
	return cfg.writeTagFile(tf, file)
}

func rm(cfg *RmConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rm.Parse(cc, args)
	if err != nil {
		cfg.Rm.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: rm requires a path and a file, got %v", cli.ErrUsage, args)
	}
	return rmFile(cfg.MainConfig, cc.In, args[0], args[1])
}

func rmFile(cfg *MainConfig, in io.Reader, path, file string) error {
	tf, err := cfg.readTagFile(in, file)
	if err != nil {
		return err
	}
	if !tf.S.Has(path) {
		theLog.Debug("nothing to remove", "path", path, "file", file)
		return nil
	}
	tf.S.Remove(path)
	return cfg.writeTagFile(tf, file)
}
