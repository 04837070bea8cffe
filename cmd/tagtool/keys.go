package main

import (
	"fmt"
	"io"

	"github.com/signadot/tagstore/encode"
	"github.com/signadot/tagstore/storage"

	"github.com/scott-cotton/cli"
)

func keys(cfg *KeysConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Keys.Parse(cc, args)
	if err != nil {
		cfg.Keys.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var path, file string
	switch len(args) {
	case 1:
		file = args[0]
	case 2:
		path, file = args[0], args[1]
	default:
		return fmt.Errorf("%w: keys requires a file and an optional path, got %v", cli.ErrUsage, args)
	}
	return listKeys(cfg.MainConfig, cc.Out, cc.In, path, file, cfg.Recursive)
}

// listKeys prints the names in the compound at path, or at the root when
// path is empty. Recursively, it prints every dotted path with its type.
func listKeys(cfg *MainConfig, w io.Writer, in io.Reader, path, file string, recursive bool) error {
	tf, err := cfg.readTagFile(in, file)
	if err != nil {
		return err
	}
	s := tf.S
	if path != "" {
		s = tf.S.GetCompound(path, nil)
		if s == nil {
			return fmt.Errorf("no compound at %q in %s", path, file)
		}
	}
	if !recursive {
		for _, k := range s.Keys() {
			if _, err := fmt.Fprintln(w, encode.QuoteKey(k)); err != nil {
				return err
			}
		}
		return nil
	}
	return s.Walk(func(p string, v *storage.Value) error {
		_, err := fmt.Fprintf(w, "%s\t%s\n", p, v.Type)
		return err
	})
}
