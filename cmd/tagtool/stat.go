package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tagstore/storage"

	"github.com/dustin/go-humanize"
	"github.com/scott-cotton/cli"
)

func stat(cfg *StatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stat.Parse(cc, args)
	if err != nil {
		cfg.Stat.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	return statFiles(cfg.MainConfig, cc.Out, cc.In, args)
}

type fileStats struct {
	entries  int
	depth    int
	perType  map[storage.Type]int
	topLevel int
}

func statsOf(s *storage.Storage) *fileStats {
	st := &fileStats{perType: map[storage.Type]int{}, topLevel: s.Len()}
	st.add(s, 1)
	return st
}

// add counts the entries of s, which sits at depth. Lists are counted
// but not entered.
func (st *fileStats) add(s *storage.Storage, depth int) {
	for _, k := range s.Keys() {
		v, ok := s.Entry(k)
		if !ok {
			continue
		}
		st.entries++
		st.perType[v.Type]++
		st.depth = max(st.depth, depth)
		if v.Type == storage.CompoundType {
			st.add(v.Compound, depth+1)
		}
	}
}

func statFiles(cfg *MainConfig, w io.Writer, in io.Reader, files []string) error {
	for i, file := range files {
		tf, err := cfg.readTagFile(in, file)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		st := statsOf(tf.S)
		fmt.Fprintf(w, "file:        %s\n", file)
		fmt.Fprintf(w, "size:        %s\n", humanize.Bytes(uint64(tf.Size)))
		if tf.Text {
			fmt.Fprintf(w, "encoding:    snbt text\n")
		} else {
			fmt.Fprintf(w, "encoding:    %s, %s\n", tf.Dialect, tf.Compression)
			fmt.Fprintf(w, "raw size:    %s\n", humanize.Bytes(uint64(tf.RawSize)))
			fmt.Fprintf(w, "root name:   %q\n", tf.RootName)
		}
		fmt.Fprintf(w, "entries:     %s (%d top level)\n", humanize.Comma(int64(st.entries)), st.topLevel)
		fmt.Fprintf(w, "depth:       %d\n", st.depth)
		var counts []string
		for _, t := range storage.Types() {
			if n := st.perType[t]; n > 0 {
				counts = append(counts, fmt.Sprintf("%s=%d", t, n))
			}
		}
		if _, err := fmt.Fprintf(w, "types:       %s\n", strings.Join(counts, " ")); err != nil {
			return err
		}
	}
	return nil
}
