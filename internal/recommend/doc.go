// Package recommend ranks catalog titles against a resolved query title
// using the precomputed similarity matrix.
//
// The ranking reads a single matrix row, sorts by score descending, and
// drops the top entry on the assumption that a title is always its own best
// match. That assumption is inherited from the data pipeline and is not
// validated here: with duplicate titles or a non-self-maximal row the
// dropped entry can be wrong. Tie order among equal scores is unspecified.
package recommend
