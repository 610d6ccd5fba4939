package inference

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

var percentileLevels = []int{25, 50, 75, 90, 95}

func computeNumericStats(vals []float64) NumericStats {
	s := NumericStats{Percentiles: map[int]float64{}}
	if len(vals) == 0 {
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(len(sorted))
	var sq float64
	for _, v := range sorted {
		d := v - s.Mean
		sq += d * d
	}
	s.Variance = sq / float64(len(sorted))
	s.StdDev = math.Sqrt(s.Variance)
	s.Median = quantile(sorted, 0.5)
	for _, p := range percentileLevels {
		s.Percentiles[p] = quantile(sorted, float64(p)/100)
	}
	s.Mode = modes(sorted)
	s.Histogram = histogram(sorted)
	s.Outliers = iqrOutliers(sorted, s.Percentiles[25], s.Percentiles[75])
	return s
}

// quantile computes the q-th quantile of a sorted slice with linear
// interpolation between order statistics.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// modes returns the most frequent values; ties keep every winner.
func modes(sorted []float64) []float64 {
	counts := make(map[float64]int)
	best := 0
	for _, v := range sorted {
		counts[v]++
		if counts[v] > best {
			best = counts[v]
		}
	}
	var out []float64
	for v, c := range counts {
		if c == best {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// histogram builds max(3, min(10, round(sqrt(n)))) equal-width bins. Values
// landing exactly on the final upper edge fold into the last bin.
func histogram(sorted []float64) []HistogramBin {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	binCount := int(math.Round(math.Sqrt(float64(n))))
	if binCount < 3 {
		binCount = 3
	}
	if binCount > 10 {
		binCount = 10
	}
	lo, hi := sorted[0], sorted[n-1]
	if lo == hi {
		return []HistogramBin{{Low: lo, High: hi, Count: n}}
	}
	width := (hi - lo) / float64(binCount)
	bins := make([]HistogramBin, binCount)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	bins[binCount-1].High = hi
	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		bins[idx].Count++
	}
	return bins
}

// iqrOutliers applies the 1.5×IQR rule.
func iqrOutliers(sorted []float64, q1, q3 float64) []float64 {
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr
	var out []float64
	for _, v := range sorted {
		if v < lo || v > hi {
			out = append(out, v)
		}
	}
	return out
}

const topValueCount = 10

func computeCategoricalStats(vals []string) CategoricalStats {
	s := CategoricalStats{Distribution: map[string]int{}}
	for _, v := range vals {
		s.Distribution[v]++
	}
	s.UniqueCount = len(s.Distribution)

	tops := make([]ValueCount, 0, len(s.Distribution))
	for v, c := range s.Distribution {
		pct := 0.0
		if len(vals) > 0 {
			pct = float64(c) / float64(len(vals)) * 100
		}
		tops = append(tops, ValueCount{Value: v, Count: c, Percentage: pct})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 0 {
		s.Mode = tops[0].Value
	}
	if len(tops) > topValueCount {
		tops = tops[:topValueCount]
	}
	s.TopValues = tops

	// Shannon entropy over the value distribution.
	n := float64(len(vals))
	for _, c := range s.Distribution {
		p := float64(c) / n
		s.Entropy -= p * math.Log2(p)
	}
	return s
}

func computeDateTimeStats(times []time.Time) DateTimeStats {
	s := DateTimeStats{Frequency: "irregular", Trend: "stable"}
	if len(times) == 0 {
		return s
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Start = s.Min
	s.End = s.Max

	if len(sorted) >= 2 {
		deltas := make([]float64, len(sorted)-1)
		for i := 1; i < len(sorted); i++ {
			deltas[i-1] = sorted[i].Sub(sorted[i-1]).Seconds()
		}
		med := medianOf(deltas)
		s.Frequency = frequencyFor(med)

		// Gaps: spans over twice the typical spacing.
		if med > 0 {
			for i := 1; i < len(sorted); i++ {
				if sorted[i].Sub(sorted[i-1]).Seconds() > 2*med {
					s.Gaps = append(s.Gaps, TimeGap{From: sorted[i-1], To: sorted[i]})
				}
			}
		}
	}

	// Trend over row order, not sorted order.
	s.Trend = orderTrend(times)
	return s
}

func medianOf(vals []float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

func frequencyFor(medianSeconds float64) string {
	const day = 86400.0
	within := func(target, tolerance float64) bool {
		return math.Abs(medianSeconds-target) <= tolerance
	}
	switch {
	case within(day, day/4):
		return "daily"
	case within(7*day, day):
		return "weekly"
	case within(30*day, 3*day):
		return "monthly"
	case within(365*day, 20*day):
		return "yearly"
	default:
		return "irregular"
	}
}

// orderTrend grades whether timestamps mostly ascend or descend in row order.
func orderTrend(times []time.Time) string {
	if len(times) < 2 {
		return "stable"
	}
	up, down := 0, 0
	for i := 1; i < len(times); i++ {
		switch {
		case times[i].After(times[i-1]):
			up++
		case times[i].Before(times[i-1]):
			down++
		}
	}
	total := float64(len(times) - 1)
	switch {
	case float64(up)/total > 0.7:
		return "increasing"
	case float64(down)/total > 0.7:
		return "decreasing"
	default:
		return "stable"
	}
}

const commonWordCount = 10

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

func computeTextStats(vals []string) TextStats {
	s := TextStats{Encoding: "utf-8"}
	if len(vals) == 0 {
		return s
	}
	s.MinLength = math.MaxInt
	total := 0
	words := map[string]int{}
	asciiOnly := true
	for _, v := range vals {
		l := len([]rune(v))
		total += l
		if l < s.MinLength {
			s.MinLength = l
		}
		if l > s.MaxLength {
			s.MaxLength = l
		}
		for _, w := range wordPattern.FindAllString(strings.ToLower(v), -1) {
			words[w]++
		}
		for _, r := range v {
			if r > 127 {
				asciiOnly = false
			}
		}
	}
	s.AvgLength = float64(total) / float64(len(vals))

	tops := make([]WordCount, 0, len(words))
	for w, c := range words {
		tops = append(tops, WordCount{Word: w, Count: c})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Word < tops[j].Word
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > commonWordCount {
		tops = tops[:commonWordCount]
	}
	s.CommonWords = tops

	// Best-effort: latin script vs unknown is all we claim without a language model.
	if asciiOnly {
		s.Languages = []string{"en"}
	}
	return s
}
