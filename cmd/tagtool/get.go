package main

import (
	"fmt"
	"io"

	"github.com/signadot/tagstore/encode"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a path", cli.ErrUsage)
	}
	path, files := args[0], args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	found, err := getFiles(cfg.MainConfig, cc.Out, cc.In, path, files)
	if err != nil {
		return err
	}
	if !found {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// getFiles prints the value at path in each file, reporting whether it
// was present in all of them.
func getFiles(cfg *MainConfig, w io.Writer, in io.Reader, path string, files []string) (bool, error) {
	opts := cfg.encOpts(w)
	all := true
	for _, file := range files {
		tf, err := cfg.readTagFile(in, file)
		if err != nil {
			return false, err
		}
		v, ok := tf.S.GetValue(path)
		if !ok {
			theLog.Warn("not found", "path", path, "file", file)
			all = false
			continue
		}
		if err := encode.EncodeValue(v, w, opts...); err != nil {
			return false, fmt.Errorf("error encoding %s in %s: %w", path, file, err)
		}
	}
	return all, nil
}
