// Package rmp provides a minimal GraphQL client for the instructor-rating
// provider.
//
// Only the teacher search query is implemented. Candidate mirrors the
// provider's node shape so search results can be cached verbatim and
// replayed without another network call.
package rmp
