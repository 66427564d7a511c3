package mnist

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/hupe1980/knnlab/core"
)

// MakePermutation returns a random permutation of [0, n).
func MakePermutation(n int, r *rand.Rand) []int {
	return r.Perm(n)
}

// WritePermutation writes perm as comma-terminated decimal indices.
func WritePermutation(w io.Writer, perm []int) error {
	bw := bufio.NewWriter(w)
	for _, idx := range perm {
		if _, err := bw.WriteString(strconv.Itoa(idx)); err != nil {
			return err
		}
		if err := bw.WriteByte(','); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPermutation parses comma-separated indices and checks that they form a permutation.
// Empty fields, such as the one after a trailing comma, are skipped.
func ReadPermutation(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading permutation: %w", err)
	}

	var perm []int
	for _, field := range strings.Split(string(data), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an index", ErrInvalidPermutation, field)
		}
		perm = append(perm, idx)
	}

	if err := ValidatePermutation(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// ValidatePermutation checks that perm contains every index in [0, len(perm)) exactly once.
func ValidatePermutation(perm []int) error {
	seen := make([]bool, len(perm))
	for _, idx := range perm {
		if idx < 0 || idx >= len(perm) {
			return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidPermutation, idx, len(perm))
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d repeated", ErrInvalidPermutation, idx)
		}
		seen[idx] = true
	}
	return nil
}

// PermuteAll applies perm to every image, keeping labels.
func PermuteAll(items []core.Labeled[Image], perm []int) ([]core.Labeled[Image], error) {
	out := make([]core.Labeled[Image], len(items))
	for i, it := range items {
		img, err := it.Value.Permuted(perm)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out[i] = core.Labeled[Image]{Label: it.Label, Value: img}
	}
	return out, nil
}
