// Package ir defines the typed program representation consumed by shadergen.
//
// A front end (out of scope for this module) lowers host-language shader
// declarations into a Program: user types with their fields, resources,
// constants and methods, each method carrying a tree of statements and
// expressions with resolved types.
//
// # Structure
//
// The representation is organized around TypeDecl values:
//   - Struct types: value types with ordered fields and optional semantics
//   - Class types: shader classes holding resources and functions
//   - Functions: bodies built from Statement and Expression trees
//
// Everything downstream queries the program through the Oracle interface,
// so any front end able to answer type, function and constant lookups can
// drive code generation without building a Program.
//
// # Built-in vocabulary
//
// Primitive vector/matrix types, resource types and the ShaderBuiltins
// intrinsic owner are addressed by the canonical names declared in
// builtin.go. Calls whose callee has no user declaration are intrinsics
// and are translated by each backend.
package ir
