package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: convert requires an input and an output file, got %v", cli.ErrUsage, args)
	}
	return convertFile(cfg, cc.In, args[0], args[1])
}

// convertFile rewrites in as out. The output keeps the input's dialect,
// compression and root name unless -to or -z say otherwise.
func convertFile(cfg *ConvertConfig, r io.Reader, in, out string) error {
	tf, err := cfg.readTagFile(r, in)
	if err != nil {
		return err
	}
	if cfg.ToDialect != nil {
		tf.Dialect = cfg.ToDialect
	}
	if err := cfg.writeTagFile(tf, out); err != nil {
		return fmt.Errorf("error writing %s: %w", out, err)
	}
	return nil
}
