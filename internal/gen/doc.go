// Package gen renders stage plans into Go source and writes it.
//
// Every planned model gets a builder file, rendered with text/template and
// formatted with goimports, holding:
//   - one generic stage type per required key, each with a single setter
//   - the AllSet type with the optional setters, embedding the parent's AllSet
//   - the resolved AllSet and the New / Resume entry functions
//
// Binder files and the optional navigator file are built with jennifer.
// Files are written concurrently, each exactly once.
//
// The emitter makes no decisions: names, ordering and delegation all come
// from the plan.
package gen
