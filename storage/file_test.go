package storage

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tagstore/tag"
)

func TestCompressedUncompressedEquivalence(t *testing.T) {
	dir := t.TempDir()
	want := fullStorage()

	raw := filepath.Join(dir, "raw.dat")
	if err := want.SaveUncompressed(raw); err != nil {
		t.Fatal(err)
	}
	gotRaw, err := LoadUncompressed(raw)
	if err != nil {
		t.Fatal(err)
	}

	gz := filepath.Join(dir, "gz.dat")
	if err := want.SaveCompressed(gz); err != nil {
		t.Fatal(err)
	}
	gotGz, err := LoadCompressed(gz)
	if err != nil {
		t.Fatal(err)
	}

	if !want.Equal(gotRaw) {
		t.Errorf("uncompressed mismatch:\n%s", cmp.Diff(want, gotRaw))
	}
	if !want.Equal(gotGz) {
		t.Errorf("compressed mismatch:\n%s", cmp.Diff(want, gotGz))
	}

	d, err := os.ReadFile(gz)
	if err != nil {
		t.Fatal(err)
	}
	if tag.DetectCompression(d) != tag.Gzip {
		t.Error("SaveCompressed did not gzip")
	}
}

func TestSaveLoadScenario(t *testing.T) {
	s := New()
	s.SetString("name", "Ada")
	s.SetInt("id", 7)
	meta := New()
	meta.SetInt("active", 1)
	s.SetCompound("meta", meta)

	p := filepath.Join(t.TempDir(), "ada.dat")
	if err := s.SaveCompressed(p); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCompressed(p)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.GetString("name", ""); v != "Ada" {
		t.Errorf("name = %q", v)
	}
	if v := got.GetInt("id", 0); v != 7 {
		t.Errorf("id = %d", v)
	}
	if v := got.GetInt("meta.active", 0); v != 1 {
		t.Errorf("meta.active = %d", v)
	}
}

func TestLoadDetectsCompression(t *testing.T) {
	dir := t.TempDir()
	want := fullStorage()
	for _, c := range []tag.Compression{tag.None, tag.Gzip, tag.Zlib, tag.Snappy} {
		for _, d := range tag.Dialects() {
			t.Run(c.String()+"/"+d.String(), func(t *testing.T) {
				p := filepath.Join(dir, c.String()+"-"+d.String())
				if err := want.Save(p, WithDialect(d), WithCompression(c)); err != nil {
					t.Fatal(err)
				}
				got, err := Load(p, WithDialect(d))
				if err != nil {
					t.Fatal(err)
				}
				if !want.Equal(got) {
					t.Errorf("mismatch:\n%s", cmp.Diff(want, got))
				}
			})
		}
	}
}

func TestSaveCompressedWithSnappy(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.dat")
	s := New()
	s.SetLong("x", 1)
	if err := s.SaveCompressed(p, WithCompression(tag.Snappy)); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCompressed(p); !errors.Is(err, ErrDecode) {
		t.Errorf("reading snappy as gzip: got %v, want ErrDecode", err)
	}
	got, err := LoadCompressed(p, WithCompression(tag.Snappy))
	if err != nil {
		t.Fatal(err)
	}
	if got.GetLong("x", 0) != 1 {
		t.Error("x lost")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCompressed(filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	s := New()
	s.SetString("k", "some value long enough to matter")
	p := filepath.Join(dir, "trunc")
	if err := s.SaveUncompressed(p); err != nil {
		t.Fatal(err)
	}
	d, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, d[:len(d)-5], 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUncompressed(p); !errors.Is(err, ErrDecode) {
		t.Errorf("truncated file: got %v, want ErrDecode", err)
	}

	if err := os.WriteFile(p, []byte{10, 0, 0, 42, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadUncompressed(p)
	if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrUnsupportedTagKind) || !errors.Is(err, tag.ErrUnknownKind) {
		t.Errorf("unknown kind: got %v", err)
	}
	if _, err := Unmarshal([]byte{10, 0, 0, 13, 0, 1, 'k', 0}); !errors.Is(err, ErrUnsupportedTagKind) {
		t.Errorf("unknown kind from bytes: got %v", err)
	}
	_, _, err = Decode(bytes.NewReader([]byte{10, 0, 0, 13, 0, 1, 'k', 0}), tag.BigEndian)
	if !errors.Is(err, ErrDecode) || !errors.Is(err, ErrUnsupportedTagKind) {
		t.Errorf("unknown kind from reader: got %v", err)
	}
}

func TestSaveSkipsUnwritableStrings(t *testing.T) {
	long := strings.Repeat("x", 70000)
	tests := []struct {
		name string
		d    tag.Dialect
		set  func(s *Storage)
		// written reports whether the unwritable string made it to disk.
		written func(s *Storage) bool
	}{
		{"long value", tag.BigEndian,
			func(s *Storage) { s.SetString("big", long) },
			func(s *Storage) bool { return s.Has("big") }},
		{"long name", tag.LittleEndian,
			func(s *Storage) { s.SetEntry(long, FromInt(1)) },
			func(s *Storage) bool { _, ok := s.Entry(long); return ok }},
		{"long list element", tag.BigEndian,
			func(s *Storage) { s.SetList("xs", []*Value{FromString("a"), FromString(long)}) },
			func(s *Storage) bool { xs, _ := s.GetRawList("xs"); return len(xs) != 1 }},
		{"invalid utf8", tag.BigEndian,
			func(s *Storage) { s.SetString("bad", "a\xffb") },
			func(s *Storage) bool { return s.Has("bad") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			logger := slog.New(slog.NewTextHandler(buf, nil))
			s := New()
			s.SetInt("id", 7)
			tt.set(s)
			p := filepath.Join(t.TempDir(), "f.dat")
			if err := s.SaveCompressed(p, WithDialect(tt.d), WithLogger(logger)); err != nil {
				t.Fatal(err)
			}
			got, err := LoadCompressed(p, WithDialect(tt.d))
			if err != nil {
				t.Fatal(err)
			}
			if got.GetInt("id", 0) != 7 {
				t.Errorf("id lost: %v", got.Keys())
			}
			if tt.written(got) {
				t.Error("unwritable string was saved")
			}
			logs := buf.String()
			if !strings.Contains(logs, "level=WARN") || !strings.Contains(logs, ErrUnrepresentableValue.Error()) {
				t.Errorf("no warning logged:\n%.200s", logs)
			}
		})
	}
}

func TestSaveIOError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "no", "such", "dir", "f.dat")
	if err := New().SaveCompressed(p); !errors.Is(err, ErrIO) {
		t.Errorf("got %v, want ErrIO", err)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.dat")
	if err := fullStorage().SaveCompressed(p, WithRootName("root")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "f.dat" {
		t.Errorf("unexpected files: %v", entries)
	}
	d, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	_, name, err := tag.BigEndian.Decode(mustReader(t, tag.Gzip, d))
	if err != nil {
		t.Fatal(err)
	}
	if name != "root" {
		t.Errorf("root name = %q", name)
	}
}

func mustReader(t *testing.T, c tag.Compression, d []byte) io.Reader {
	t.Helper()
	r, err := c.NewReader(bytes.NewReader(d))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}
