package main

import (
	"fmt"
	"io"

	"github.com/signadot/tagstore/storage"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires an expression", cli.ErrUsage)
	}
	src, files := args[0], args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	ok, err := checkFiles(cfg.MainConfig, cfg.output(cc.Out), cc.In, src, files)
	if err != nil {
		return err
	}
	if !ok {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// output is where check reports: out, or nowhere with -q.
func (cfg *CheckConfig) output(out io.Writer) io.Writer {
	if cfg.Quiet {
		return io.Discard
	}
	return out
}

// checkFiles evaluates the boolean expression src against each file and
// reports whether it held for all of them. The top level names of a file
// are the expression's variables, and compounds are maps.
func checkFiles(cfg *MainConfig, w io.Writer, in io.Reader, src string, files []string) (bool, error) {
	all := true
	for _, file := range files {
		tf, err := cfg.readTagFile(in, file)
		if err != nil {
			return false, err
		}
		res, err := evalCheck(tf.S, src)
		if err != nil {
			return false, fmt.Errorf("%s: %w", file, err)
		}
		all = all && res
		if _, err := fmt.Fprintf(w, "%s: %t\n", file, res); err != nil {
			return false, err
		}
	}
	return all, nil
}

func evalCheck(s *storage.Storage, src string) (bool, error) {
	env := compoundEnv(s)
	opts := append([]expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}, exprOpts(s)...)
	prg, err := expr.Compile(src, opts...)
	if err != nil {
		return false, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("expression gave %T, not bool", res)
	}
	return b, nil
}

// exprOpts provides functions taking dotted paths, which also reach names
// that are not identifiers.
func exprOpts(s *storage.Storage) []expr.Option {
	return []expr.Option{
		expr.Function("haspath", func(params ...any) (any, error) {
			return s.Has(params[0].(string)), nil
		},
			new(func(string) bool)),
		expr.Function("getpath", func(params ...any) (any, error) {
			v, ok := s.GetValue(params[0].(string))
			if !ok {
				return nil, nil
			}
			return envValue(v), nil
		},
			new(func(string) any)),
		expr.Function("pathtype", func(params ...any) (any, error) {
			v, ok := s.GetValue(params[0].(string))
			if !ok {
				return "", nil
			}
			return v.Type.String(), nil
		},
			new(func(string) string)),
	}
}

func compoundEnv(s *storage.Storage) map[string]any {
	res := make(map[string]any, s.Len())
	for _, k := range s.Keys() {
		v, _ := s.Entry(k)
		res[k] = envValue(v)
	}
	return res
}

func envValue(v *storage.Value) any {
	switch v.Type {
	case storage.ByteType, storage.ShortType, storage.IntType, storage.LongType:
		return int(v.Int)
	case storage.FloatType, storage.DoubleType:
		return v.Float
	case storage.StringType:
		return v.String
	case storage.ByteArrayType:
		res := make([]any, len(v.Bytes))
		for i, b := range v.Bytes {
			res[i] = int(int8(b))
		}
		return res
	case storage.IntArrayType:
		res := make([]any, len(v.Ints))
		for i, x := range v.Ints {
			res[i] = int(x)
		}
		return res
	case storage.LongArrayType:
		res := make([]any, len(v.Longs))
		for i, x := range v.Longs {
			res[i] = int(x)
		}
		return res
	case storage.ListType:
		res := make([]any, len(v.List))
		for i, e := range v.List {
			if e != nil {
				res[i] = envValue(e)
			}
		}
		return res
	case storage.CompoundType:
		return compoundEnv(v.Compound)
	}
	return nil
}
