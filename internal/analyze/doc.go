// Package analyze provides package loading and model discovery.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// struct types marked with the //extras:model directive, read their
// extra:"key,optional" field tags, classify each field's value type once,
// and record the embedding chain used to resolve model ancestry.
//
// Key types:
//   - ModelDecl: a model declaration and its candidate bindings
//   - StructInfo: embedded structs and bindable field count of a struct
//   - TypeGraph: everything extracted from one load
package analyze
