// Package histogram counts occurrences of comparable keys.
package histogram

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by Mode when nothing has been counted.
var ErrEmpty = errors.New("histogram: empty")

// Histogram maps keys to occurrence counts.
// Keys are remembered in first-bump order, which makes Mode and String deterministic.
type Histogram[K comparable] struct {
	counts map[K]int
	order  []K
	total  int
}

// New creates an empty histogram.
func New[K comparable]() *Histogram[K] {
	return &Histogram[K]{counts: make(map[K]int)}
}

// Bump increments the count for key by one.
func (h *Histogram[K]) Bump(key K) {
	h.Add(key, 1)
}

// Add increments the count for key by n. Non-positive n is ignored.
func (h *Histogram[K]) Add(key K, n int) {
	if n <= 0 {
		return
	}
	if _, ok := h.counts[key]; !ok {
		h.order = append(h.order, key)
	}
	h.counts[key] += n
	h.total += n
}

// Get returns the count for key, or zero if it was never bumped.
func (h *Histogram[K]) Get(key K) int {
	return h.counts[key]
}

// Len returns the number of distinct keys.
func (h *Histogram[K]) Len() int {
	return len(h.order)
}

// Total returns the sum of all counts.
func (h *Histogram[K]) Total() int {
	return h.total
}

// Keys returns every key ever bumped, in first-bump order.
func (h *Histogram[K]) Keys() []K {
	keys := make([]K, len(h.order))
	copy(keys, h.order)
	return keys
}

// Mode returns the key with the highest count.
// Among tied keys the one bumped first wins.
func (h *Histogram[K]) Mode() (K, error) {
	var best K
	if len(h.order) == 0 {
		return best, ErrEmpty
	}
	bestCount := -1
	for _, k := range h.order {
		if c := h.counts[k]; c > bestCount {
			best, bestCount = k, c
		}
	}
	return best, nil
}

// Merge adds every count of other into h.
func (h *Histogram[K]) Merge(other *Histogram[K]) {
	for _, k := range other.order {
		h.Add(k, other.counts[k])
	}
}

func (h *Histogram[K]) String() string {
	parts := make([]string, len(h.order))
	for i, k := range h.order {
		parts[i] = fmt.Sprintf("%v:%d", k, h.counts[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
