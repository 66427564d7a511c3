package mnist

import (
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/histogram"
)

// Discard keeps every n-th item, those whose index is divisible by n.
// n <= 1 keeps everything.
func Discard[T any](items []core.Labeled[T], n int) []core.Labeled[T] {
	n = max(n, 1)
	out := make([]core.Labeled[T], 0, (len(items)+n-1)/n)
	for i := 0; i < len(items); i += n {
		out = append(out, items[i])
	}
	return out
}

// LabelCounts tallies items by label in first-seen order.
func LabelCounts[T any](items []core.Labeled[T]) *histogram.Histogram[core.Label] {
	h := histogram.New[core.Label]()
	for _, it := range items {
		h.Bump(it.Label)
	}
	return h
}

// ShrinkAll shrinks every image by factor, keeping labels.
func ShrinkAll(items []core.Labeled[Image], factor int) []core.Labeled[Image] {
	return core.Relabel(items, func(img Image) Image { return img.Shrunken(factor) })
}
