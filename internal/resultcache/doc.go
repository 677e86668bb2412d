// Package resultcache persists provider search results between runs.
//
// Entries are keyed by the canonical professor name and live in one of three
// tiers: positive (non-empty results, 180 days), negative (empty results,
// 14 days) and manual (operator supplied, never expires). Lookups check
// manual first, so an operator override always wins.
//
// The whole cache is one JSON document rewritten atomically after every
// mutation. A missing or corrupt document is never fatal: the cache starts
// empty and the condition is reported through LoadStatus.
package resultcache
