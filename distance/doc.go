// Package distance provides distance metrics over feature vectors.
//
// # Supported Metrics
//
//   - SquaredEuclidean: sum of squared component differences (default)
//   - Euclidean: L2 norm of the difference
//   - Manhattan: L1 norm of the difference
//   - Chebyshev: largest absolute component difference
//   - Hamming: number of differing components (bits, for bit data)
//
// # Usage
//
//	fn, err := distance.Provider(distance.Euclidean)
//	d := fn(a, b)
//
// Provider serves []float64 vectors, ProviderBytes serves raw pixel data and
// ProviderBits serves bit sequences. Every function panics when its inputs
// differ in length.
package distance
