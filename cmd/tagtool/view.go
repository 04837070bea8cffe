package main

import (
	"fmt"
	"io"

	"github.com/signadot/tagstore/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	return viewFiles(cfg.MainConfig, cc.Out, cc.In, args)
}

func viewFiles(cfg *MainConfig, w io.Writer, in io.Reader, files []string) error {
	opts := cfg.encOpts(w)
	for _, file := range files {
		tf, err := cfg.readTagFile(in, file)
		if err != nil {
			return err
		}
		if err := encode.Encode(tf.S, w, opts...); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}
