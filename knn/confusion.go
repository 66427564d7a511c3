package knn

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/histogram"
	"github.com/olekukonko/tablewriter"
)

// Outcome is a (true label, predicted label) pair.
type Outcome struct {
	Truth     core.Label
	Predicted core.Label
}

// ConfusionMatrix tallies classification outcomes by true label.
// It is not safe for concurrent use.
type ConfusionMatrix struct {
	right    *histogram.Histogram[core.Label]
	wrong    *histogram.Histogram[core.Label]
	outcomes *histogram.Histogram[Outcome]
}

// NewConfusionMatrix returns an empty matrix.
func NewConfusionMatrix() *ConfusionMatrix {
	return &ConfusionMatrix{
		right:    histogram.New[core.Label](),
		wrong:    histogram.New[core.Label](),
		outcomes: histogram.New[Outcome](),
	}
}

// Record tallies one classification.
func (m *ConfusionMatrix) Record(truth, predicted core.Label) {
	if truth == predicted {
		m.right.Bump(truth)
	} else {
		m.wrong.Bump(truth)
	}
	m.outcomes.Bump(Outcome{Truth: truth, Predicted: predicted})
}

// Merge adds every tally of other into m.
func (m *ConfusionMatrix) Merge(other *ConfusionMatrix) {
	if other == nil {
		return
	}
	m.right.Merge(other.right)
	m.wrong.Merge(other.wrong)
	m.outcomes.Merge(other.outcomes)
}

// Correct returns how many queries with the given true label were classified correctly.
func (m *ConfusionMatrix) Correct(label core.Label) int {
	return m.right.Get(label)
}

// Incorrect returns how many queries with the given true label were misclassified.
func (m *ConfusionMatrix) Incorrect(label core.Label) int {
	return m.wrong.Get(label)
}

// Count returns how many queries labeled truth were predicted as predicted.
func (m *ConfusionMatrix) Count(truth, predicted core.Label) int {
	return m.outcomes.Get(Outcome{Truth: truth, Predicted: predicted})
}

// Labels returns every true label seen, ascending.
func (m *ConfusionMatrix) Labels() []core.Label {
	seen := make(map[core.Label]struct{})
	for _, l := range m.right.Keys() {
		seen[l] = struct{}{}
	}
	for _, l := range m.wrong.Keys() {
		seen[l] = struct{}{}
	}

	labels := make([]core.Label, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Total returns the number of recorded classifications.
func (m *ConfusionMatrix) Total() int {
	return m.right.Total() + m.wrong.Total()
}

// ErrorRate returns the fraction of misclassified queries, or 0 when empty.
func (m *ConfusionMatrix) ErrorRate() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.wrong.Total()) / float64(total)
}

// String renders one "label: correct/total" line per label.
func (m *ConfusionMatrix) String() string {
	var sb strings.Builder
	for _, l := range m.Labels() {
		right, wrong := m.right.Get(l), m.wrong.Get(l)
		fmt.Fprintf(&sb, "%d: %d/%d\n", l, right, right+wrong)
	}
	fmt.Fprintf(&sb, "error rate: %.4f", m.ErrorRate())
	return sb.String()
}

// Render writes the matrix as a table with one row per true label.
func (m *ConfusionMatrix) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "Correct", "Incorrect", "Error"})

	for _, l := range m.Labels() {
		right, wrong := m.right.Get(l), m.wrong.Get(l)
		table.Append([]string{
			fmt.Sprintf("%d", l),
			fmt.Sprintf("%d", right),
			fmt.Sprintf("%d", wrong),
			fmt.Sprintf("%.2f%%", 100*float64(wrong)/float64(right+wrong)),
		})
	}

	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", m.right.Total()),
		fmt.Sprintf("%d", m.wrong.Total()),
		fmt.Sprintf("%.2f%%", 100*m.ErrorRate()),
	})
	table.Render()
}
