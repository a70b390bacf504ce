// Package plan turns resolved models into stage plans consumed by code
// generation.
//
// Planning pipeline, one model at a time, ancestors first:
//  1. Partition the model's extra groups into required and optional, each
//     sorted by key
//  2. Chain the required groups into stage types; the last stage returns
//     the AllSet type or continues into the nearest ancestor chain
//  3. Fold the ancestor's required keys into the chain when this model
//     redeclares one of them
//  4. Shape the AllSet: embed the parent's AllSet, or flatten it when a
//     required key of this model masks an inherited optional setter
//  5. Pick the entry points: fresh construction and, when a required chain
//     is reachable, continuation from an ancestor
//
// Plans are cached per model so a descendant reads its ancestor's plan
// instead of recomputing it.
package plan
