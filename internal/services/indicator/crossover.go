package indicator

import (
	"fmt"
	"math"
)

// Crossover detects transitions between two aligned series. The output holds
// +1 at the bar where a transitions from <= b to > b, -1 for the reverse
// transition, 0 otherwise. Bars adjacent to a NaN in either series never fire.
func Crossover(a, b []float64) ([]int, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptySeries
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("series length mismatch: %d vs %d", len(a), len(b))
	}
	out := make([]int, len(a))
	for i := 1; i < len(a); i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) || math.IsNaN(a[i-1]) || math.IsNaN(b[i-1]) {
			continue
		}
		if a[i-1] <= b[i-1] && a[i] > b[i] {
			out[i] = 1
		} else if a[i-1] >= b[i-1] && a[i] < b[i] {
			out[i] = -1
		}
	}
	return out, nil
}
