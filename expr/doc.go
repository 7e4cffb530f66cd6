// Package expr provides a small predicate DSL on top of bun select queries:
// comparison constructors, nil-safe AND/OR composition and an imperative
// builder.
package expr
