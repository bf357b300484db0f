// Package metadata enriches movie titles with display metadata from TMDB.
//
// The Service memoizes results by exact title for the life of the process,
// retries transient failures a fixed number of times, and degrades to
// sentinel values (placeholder poster, "Unknown" year, "N/A" rating) instead
// of surfacing errors. A fetch never fails past this boundary: callers
// always get a renderable record. Batch fetches fan out across a bounded
// worker pool and associate results back to their slot by index, so
// completion order never scrambles placement.
package metadata
