package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tagstore/encode"
	"github.com/signadot/tagstore/libdiff"
	"github.com/signadot/tagstore/storage"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	differs, err := diffFiles(cfg, cc.Out, cc.In, args[0], args[1])
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffFiles(cfg *DiffConfig, w io.Writer, in io.Reader, a, b string) (bool, error) {
	fa, err := cfg.readTagFile(in, a)
	if err != nil {
		return false, err
	}
	fb, err := cfg.readTagFile(in, b)
	if err != nil {
		return false, err
	}
	from, to := fa.S, fb.S
	if cfg.Reverse {
		from, to = to, from
	}
	pr := newDiffPrinter(cfg.MainConfig, w)
	if cfg.Text {
		return pr.text(from, to)
	}
	cs := libdiff.Diff(from, to)
	for i := range cs {
		if err := pr.change(&cs[i]); err != nil {
			return false, err
		}
	}
	return len(cs) != 0, nil
}

type diffPrinter struct {
	w        io.Writer
	add, del func(a ...any) string
	same     func(a ...any) string
	path     func(a ...any) string
}

func newDiffPrinter(cfg *MainConfig, w io.Writer) *diffPrinter {
	plain := fmt.Sprint
	pr := &diffPrinter{w: w, add: plain, del: plain, same: plain, path: plain}
	if cfg.useColor(w) {
		pr.add = color.New(color.FgGreen).SprintFunc()
		pr.del = color.New(color.FgRed).SprintFunc()
		pr.path = color.New(color.Bold).SprintFunc()
	}
	return pr
}

func (pr *diffPrinter) change(c *libdiff.Change) error {
	p := pr.path(c.PathString())
	var line string
	switch c.Op {
	case libdiff.Insert:
		line = pr.add("+ ") + p + ": " + pr.add(encode.MustString(c.To))
	case libdiff.Delete:
		line = pr.del("- ") + p + ": " + pr.del(encode.MustString(c.From))
	default:
		line = "~ " + p + ": " + pr.replacement(c.From, c.To)
	}
	_, err := fmt.Fprintln(pr.w, line)
	return err
}

// replacement renders a changed value. Two strings are shown as one
// string with the edits marked, anything else as "from -> to".
func (pr *diffPrinter) replacement(from, to *storage.Value) string {
	if from.Type != storage.StringType || to.Type != storage.StringType {
		return pr.del(encode.MustString(from)) + " -> " + pr.add(encode.MustString(to))
	}
	b := strings.Builder{}
	for _, d := range libdiff.Chars(from.String, to.String) {
		switch d.Type {
		case diffpatch.DiffInsert:
			b.WriteString(pr.add("{+" + d.Text + "+}"))
		case diffpatch.DiffDelete:
			b.WriteString(pr.del("[-" + d.Text + "-]"))
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// text prints a line diff of the indented SNBT renderings.
func (pr *diffPrinter) text(from, to *storage.Storage) (bool, error) {
	render := func(s *storage.Storage) (string, error) {
		buf := bytes.NewBuffer(nil)
		err := encode.Encode(s, buf, encode.Indent(2))
		return buf.String(), err
	}
	a, err := render(from)
	if err != nil {
		return false, err
	}
	b, err := render(to)
	if err != nil {
		return false, err
	}
	differs := false
	for _, d := range libdiff.Lines(a, b) {
		prefix, f := "  ", pr.same
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, f, differs = "+ ", pr.add, true
		case diffpatch.DiffDelete:
			prefix, f, differs = "- ", pr.del, true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := io.WriteString(pr.w, f(prefix+line)); err != nil {
				return false, err
			}
		}
	}
	return differs, nil
}
