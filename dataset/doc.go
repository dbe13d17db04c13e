// Package dataset derives the row set of one time index from a data pack.
//
// # Frames
//
// Frame turns every record into one row per time index. Inside a record
// that has at least one finite value at the index, missing values read as 0;
// a record without any finite value at the index has no row there. Each
// row's Category is its dominant dimension: the dimension with the largest
// value, ties keeping the earlier dimension.
//
// With Options.Normalize every dimension is min-max rescaled to [0, 1] over
// the frame; a degenerate extent maps to 0.
//
// # Shares
//
// Shares computes, per dimension and time index, the share of that
// dimension in the total of a set of records. Records whose total at an
// index is not positive are skipped.
package dataset
