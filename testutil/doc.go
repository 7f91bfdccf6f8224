// Package testutil provides testing utilities for geoshard.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random geometry records and
// brute-force oracles that query results are checked against.
//
// # Random Record Generation
//
//	rng := testutil.NewRNG(seed)
//	records := rng.MixedRecords(1000, testutil.Extent(0, 0, 100, 100))
//	skewed := rng.ClusteredPoints(1000, 4, 2.5, testutil.Extent(0, 0, 100, 100))
//
// # Ground Truth
//
//	want := testutil.BruteRange(records, window, false)
//	pairs := testutil.BruteJoin(a, b, geom.Intersects)
package testutil
