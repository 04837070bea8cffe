// Package tag provides the binary tag tree that storages are persisted as.
//
// # Overview
//
// A tag tree is a tree of Nodes. Each node has a Kind: eight scalar kinds
// (byte, short, int, long, float, double, string), three array kinds
// (byte, int and long arrays), the list kind holding nodes of a single kind,
// and the compound kind holding named nodes. The End kind only terminates
// compounds on the wire and never appears as a value.
//
// # Dialects
//
// The same tree has several incompatible binary layouts. Each is a Dialect:
//
//   - BigEndian: fixed width big-endian numbers, modified UTF-8 strings.
//   - LittleEndian: fixed width little-endian numbers, UTF-8 strings.
//   - NetworkLittleEndian: like LittleEndian, but ints, longs and all
//     lengths are zig-zag varints and string lengths are uvarints.
//
// Dialects are plain values, so callers pick one from configuration with
// ParseDialect rather than by probing the data.
//
// # Compression
//
// Encoded trees are usually stored compressed. Compression wraps a byte
// stream with gzip, zlib or snappy framing, and DetectCompression sniffs
// which one a file uses.
//
//	data, err := tag.MarshalCompressed(tag.BigEndian, tag.Gzip, root)
//	...
//	root, err = tag.UnmarshalCompressed(tag.BigEndian, tag.Gzip, data)
package tag
