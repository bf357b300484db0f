// Package catalog loads the movie catalog and its precomputed similarity
// matrix from a SQLite artifact.
//
// The artifact is produced offline (or converted from a JSON export with
// 'watchnext catalog import'); this package only reads it. The whole catalog
// is loaded into memory on Open and is immutable afterwards, so a single
// Store is safely shared by every concurrent request. Schema changes bump
// the version in schema.go; artifacts must be rebuilt to adopt a new schema.
package catalog
