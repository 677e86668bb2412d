// Package names turns professor display names into matching keys.
//
// Canonicalize is the single source of truth for "are these the same
// person": the result cache, the match resolver and the duplicate merger
// all key on it. Variants expands a first name through a static nickname
// table so "Bob" and "Robert" can be matched against each other.
package names
