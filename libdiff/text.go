package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Lines diffs two texts line by line. Each returned diff holds whole
// lines, newlines included.
func Lines(from, to string) []diffpatch.Diff {
	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToChars(from, to)
	diffs := diffCfg.DiffMain(a, b, false)
	return diffCfg.DiffCharsToLines(diffs, lines)
}

// Chars diffs two strings character by character, cleaned up to be
// readable.
func Chars(from, to string) []diffpatch.Diff {
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, false)
	return diffCfg.DiffCleanupSemantic(diffs)
}
