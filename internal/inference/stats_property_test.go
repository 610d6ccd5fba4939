package inference

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_PercentileMonotonicity: for any numeric column, the computed
// percentiles never decrease as the level rises, and every level stays within
// [min, max].
func TestProperty_PercentileMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("percentiles are monotone and bounded", prop.ForAll(
		func(vals []float64) bool {
			if len(vals) == 0 {
				return true
			}
			s := computeNumericStats(vals)
			levels := make([]int, 0, len(s.Percentiles))
			for p := range s.Percentiles {
				levels = append(levels, p)
			}
			sort.Ints(levels)
			prev := s.Min
			for _, p := range levels {
				v := s.Percentiles[p]
				if v < prev || v < s.Min || v > s.Max {
					return false
				}
				prev = v
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
	))

	properties.Property("median equals the 50th percentile", prop.ForAll(
		func(vals []float64) bool {
			if len(vals) == 0 {
				return true
			}
			s := computeNumericStats(vals)
			return s.Median == s.Percentiles[50]
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
	))

	properties.TestingRun(t)
}
