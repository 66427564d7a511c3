// Package queue provides a bounded heap that keeps the k closest candidates.
package queue

import "slices"

// Item is a scored candidate. Index is the candidate's position in the
// caller's storage and breaks distance ties.
type Item struct {
	Index    int
	Distance float64
}

// worse reports whether a ranks after b: larger distance, then larger index.
func worse(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Index > b.Index
}

// TopK retains the k best items pushed so far.
// Internally it is a max-heap whose root is the worst retained item.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a selector retaining at most k items.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Item, 0, k),
	}
}

// Len returns the number of retained items.
func (q *TopK) Len() int { return len(q.items) }

// Push offers an item. It is kept only if fewer than k items are retained
// or it ranks before the current worst.
func (q *TopK) Push(item Item) {
	if q.k <= 0 {
		return
	}
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return
	}
	if worse(q.items[0], item) {
		q.items[0] = item
		q.siftDown(0)
	}
}

// Worst returns the retained item that ranks last.
func (q *TopK) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Sorted returns the retained items from best to worst.
// The selector is left unchanged.
func (q *TopK) Sorted() []Item {
	out := slices.Clone(q.items)
	slices.SortFunc(out, func(a, b Item) int {
		switch {
		case worse(b, a):
			return -1
		case worse(a, b):
			return 1
		default:
			return 0
		}
	})
	return out
}

// Reset clears the selector for reuse.
func (q *TopK) Reset() {
	q.items = q.items[:0]
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !worse(q.items[i], q.items[p]) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		top := l
		if r := l + 1; r < n && worse(q.items[r], q.items[l]) {
			top = r
		}
		if !worse(q.items[top], q.items[i]) {
			return
		}
		q.items[i], q.items[top] = q.items[top], q.items[i]
		i = top
	}
}
