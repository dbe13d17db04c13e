// Package testutil provides testing utilities for vizsync.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data Packs
//
//	rng := testutil.NewRNG(seed)
//	pack := rng.Pack(testutil.PackSpec{Records: 50, Years: 10, Dimensions: []string{"Solar", "Wind"}})
//
// # Hand-written Packs
//
//	pack := testutil.PackOf([]string{"2020", "2021"}, []string{"A", "B"},
//	    testutil.Rec("X", "A", 1, 2).With("B", 9, 8))
package testutil
