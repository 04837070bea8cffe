package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Codec bool
	Path  bool
	File  bool
	List  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Codec = boolEnv("TAGSTORE_DEBUG_CODEC")
	d.Path = boolEnv("TAGSTORE_DEBUG_PATH")
	d.File = boolEnv("TAGSTORE_DEBUG_FILE")
	d.List = boolEnv("TAGSTORE_DEBUG_LIST")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Codec() bool {
	return d.Codec
}
func Path() bool {
	return d.Path
}
func File() bool {
	return d.File
}
func List() bool {
	return d.List
}
