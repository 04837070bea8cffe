// Package encode renders storages as text.
//
// The default format is SNBT, the stringified tag notation. It keeps every
// value's type through suffixes and array prefixes, so package parse reads
// it back to an equal storage:
//
//	{id: 7, meta: {active: 1b}, name: "Ada", pos: [I; 1, 2, 3]}
//
// JSON and YAML renderings are also available; they drop the numeric
// widths and are meant for other tools to read.
//
// # Usage
//
//	// one line of SNBT
//	err := encode.Encode(s, os.Stdout)
//
//	// indented, colored
//	err := encode.Encode(s, os.Stdout, encode.Indent(2), encode.EncodeColors(encode.NewColors()))
//
//	// YAML
//	err := encode.Encode(s, os.Stdout, encode.EncodeFormat(format.YAMLFormat), encode.Indent(2))
//
// # Related Packages
//
//   - github.com/signadot/tagstore/storage - the storage model
//   - github.com/signadot/tagstore/parse - parse SNBT text
package encode
