// Package testutil provides testing utilities for knnlab.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for bit sequences,
// clustered points and synthetic digit images.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	seq := rng.Bits(64)               // random bit sequence
//	pts := rng.ClusteredPoints(100, 2, 4, 0.1)
//
// # Synthetic Digits
//
//	items := rng.Digits(200, 28, 10)  // labeled images, one stroke pattern per label
//
// # Brute-force Ground Truth
//
//	label := testutil.NearestLabel(query, items, distance)
package testutil
