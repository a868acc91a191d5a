// Package modeler compiles declarative model schemas into shape-locked
// model types and declarative map rules into field-copy pipelines.
//
// A Registry owns every definition. It is configured once (DefineModel,
// DefineMap) and then serves Create and Map calls, which only read the
// compiled definitions and are safe to run concurrently.
//
// # Construction order
//
// Every instance is built in the same order:
//  1. the field set is fixed to the declared properties, holding defaults
//  2. sub-model fields are instantiated from the raw input value of the same name
//  3. values are copied from the input, or produced by running a mapper
//  4. read-only fields are locked
//  5. the instance is validated, if the schema asks for eager validation
//
// A failure at any step aborts construction and no instance is returned.
//
// # Map rules
//
// A rule maps a destination key (plain or dotted) to one of:
//
//	true                  copy the same key from the source
//	"given_name"          copy a differently named source key
//	"group.id"            read a nested source path (flatten)
//	ComputeFunc           compute the value from the whole source
//
// Dotted destination keys create missing intermediate containers, so
// "ids.user" unflattens into a nested value. Reading a dotted source path
// through a missing intermediate fails with fieldpath.ErrTraversal.
package modeler
