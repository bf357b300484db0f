// Package tmdb provides the minimal TMDB API client used for metadata
// enrichment.
//
// It authenticates requests and exposes movie search and the weekly trending
// feed. Responses are strongly typed so the enrichment layer can map fields
// without touching raw JSON. Options allow tests to supply custom HTTP
// clients without modifying production code.
package tmdb
