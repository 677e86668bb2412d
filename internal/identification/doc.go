// Package identification finds the provider record for a local professor.
//
// SearchClient queries the rating provider through the result cache, pacing
// live calls so a worker pool stays under the provider's rate limit.
// Resolver picks at most one candidate using a layered strategy (exact name,
// nickname-aware, fuzzy similarity) followed by a quality check that yields a
// confidence and an accept/review/reject recommendation. ExtractRatings
// validates a chosen candidate before anything is written to the store.
//
// Resolver is pure: it never touches the network or the store, so decisions
// can be replayed from cached candidates in tests.
package identification
