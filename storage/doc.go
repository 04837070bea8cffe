// Package storage provides a hierarchical typed key-value store that
// persists as a binary tag tree.
//
// # Values
//
// A Storage maps names to Values. A Value is a byte, short, int, long,
// float, double, string, byte/int/long array, list of Values, or a nested
// Storage (a compound). Values are never converted between these types.
//
// # Paths
//
// Accessors take dotted paths. "a.b.c" names c inside the compound b inside
// the compound a. Writing through a path creates the compounds a and b when
// they are missing, and replaces them when they hold something else.
// Reading and removing never create anything.
//
//	s := storage.New()
//	s.SetInt("player.stats.level", 12)
//	s.GetInt("player.stats.level", 0)  // 12
//	s.GetInt("player.stats.xp", -1)    // -1, missing
//	s.GetString("player.stats.level", "") // "", wrong type
//
// # Lists
//
// GetList narrows a list to the elements of one Go type:
//
//	s.SetList("xs", []*storage.Value{storage.FromInt(1), storage.FromString("two"), storage.FromInt(3)})
//	storage.GetList[int32](s, "xs", nil)   // [1 3]
//	storage.GetList[int64](s, "xs", def)   // def, nothing matched
//
// When nothing matches, GetList returns the default, so a list that is
// empty and a list of another element type read the same.
//
// # Encoding and files
//
// FromTag and ToTag convert to and from tag trees. Decoding fails on tag
// kinds it cannot represent; encoding drops values it cannot represent,
// logging each one, and keeps going.
//
// SaveCompressed, SaveUncompressed, LoadCompressed, LoadUncompressed and
// Load persist a Storage with a tag.Dialect and tag.Compression chosen
// through Options.
package storage
