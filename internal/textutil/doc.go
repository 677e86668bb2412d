// Package textutil provides the name-similarity primitives used by the match
// resolver.
//
// TokenSortRatio is token-order invariant: both inputs are accent folded,
// split on whitespace, sorted, and rejoined before an LCS-based ratio in
// [0,1] is computed. "Smith John" and "john smith" therefore score 1.0.
package textutil
