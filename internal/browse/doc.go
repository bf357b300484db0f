// Package browse paginates ranked title lists and drives batched card
// rendering. A Session tracks one cursor per list key so recommendation
// and trending pages move independently, and the Controller slices the
// active page into small batches that are enriched concurrently while
// cards stream into addressable slots.
package browse
