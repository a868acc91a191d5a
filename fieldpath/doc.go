// Package fieldpath reads and writes dotted field paths ("group.id") on
// loosely shaped values.
//
// Reads and writes are intentionally asymmetric:
//   - Get fails with a *TraversalError when an intermediate segment is
//     missing or is not a container. A missing leaf reads as nil.
//   - Set synthesizes every missing intermediate as an empty map before
//     assigning the leaf, so rules can unflatten into nested destinations.
//
// Containers are anything implementing Record (read) or Container (read and
// write), plain map[string]any values, and, for reads only, Go structs whose
// exported fields are looked up by name.
package fieldpath
