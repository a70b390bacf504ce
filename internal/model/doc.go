// Package model holds the binding model: one Target per model declaration,
// its extra groups keyed by extra name, and the ancestor links filled in by
// the resolver.
//
// Key types:
//   - TypeID: package import path + type name
//   - ValueType / ValueKind: the eligibility category of a bound value, decided once
//   - Binding: one key -> field association
//   - ExtraGroup: all bindings sharing one key
//   - Target: a generatable model with its groups and ancestry
package model
