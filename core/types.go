// Package core defines the vocabulary shared by the clustering and
// classification packages.
package core

// Label is a small category code, e.g. a digit class 0-9.
type Label uint8

// Labeled pairs a value with its category label.
type Labeled[T any] struct {
	Label Label
	Value T
}

// DistanceFunc measures the dissimilarity of two values.
// Implementations must be non-negative and symmetric; they need not be a strict metric.
type DistanceFunc[T any] func(a, b T) float64

// MeanFunc aggregates a non-empty list of values into a single representative.
type MeanFunc[T any] func(values []T) T

// EqualFunc reports whether two values are identical.
type EqualFunc[T any] func(a, b T) bool

// Relabel applies convert to every value while keeping labels in order.
func Relabel[S, T any](items []Labeled[S], convert func(S) T) []Labeled[T] {
	result := make([]Labeled[T], len(items))
	for i, item := range items {
		result[i] = Labeled[T]{Label: item.Label, Value: convert(item.Value)}
	}
	return result
}
