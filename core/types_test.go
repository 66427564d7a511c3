package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelabel(t *testing.T) {
	items := []Labeled[int]{{Label: 3, Value: 1}, {Label: 7, Value: 2}}

	got := Relabel(items, func(v int) string {
		return string(rune('a' + v))
	})

	assert.Equal(t, []Labeled[string]{{Label: 3, Value: "b"}, {Label: 7, Value: "c"}}, got)
	assert.Empty(t, Relabel([]Labeled[int]{}, func(v int) int { return v }))
}
