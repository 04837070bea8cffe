// Package parse parses SNBT, the stringified tag notation written by
// package encode, into storage values.
//
// # Usage
//
//	// a whole document, which must be a compound
//	s, err := parse.Parse([]byte(`{name: "Ada", id: 7, meta: {active: 1b}}`))
//	if err != nil {
//	    return err
//	}
//
//	// a single value
//	v, err := parse.ParseValue(`[I; 1, 2, 3]`)
//
// Numbers take their type from a suffix (1b, 2s, 3, 4L, 5.0f, 6.0d).
// Unquoted words that are not numbers or true/false are strings.
//
// # Related Packages
//
//   - github.com/signadot/tagstore/encode - render storages as SNBT
//   - github.com/signadot/tagstore/storage - the storage model
package parse
