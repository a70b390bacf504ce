// Package diagnostic provides structured errors, warnings and notes
// collected during one generation pass.
//
// Nothing in the pipeline aborts on a rejected declaration: problems are
// recorded here against the model (and field) they concern, and the pass
// continues with the remaining models.
package diagnostic
