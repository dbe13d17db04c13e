// Package brush implements per-axis range filters.
//
// An Engine holds at most one inclusive [Low, High] filter per dimension and
// combines them into a conjunctive row predicate. Dimensions without a filter
// impose no constraint, so with zero filters every row passes.
//
// Gestures (Begin, Move, End, Cancel) model a continuous range selection on
// one axis. Move only updates visibility; End reports whether the gesture
// moved so the caller can commit a selection once per gesture.
package brush
