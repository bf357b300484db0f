// Package match resolves free-text queries to known catalog titles using a
// normalized similarity ratio.
//
// Matching is deterministic for a fixed catalog: candidates are compared on
// a normalized form (case-folded, punctuation stripped), scored by edit
// distance ratio, and ties break to the earlier catalog index. Queries whose
// best score falls below the cutoff resolve to nothing rather than to a bad
// guess.
package match
