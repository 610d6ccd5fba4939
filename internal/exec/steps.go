package exec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tablechat/tablechat-cli/internal/inference"
	"github.com/tablechat/tablechat-cli/internal/intent"
	"github.com/tablechat/tablechat-cli/internal/plan"
)

// filterRows keeps rows where every condition holds. Comparison is
// type-aware: when both sides parse as numbers the comparison is numeric,
// otherwise lexical.
func filterRows(rows []map[string]any, filters []intent.FilterSpec) []map[string]any {
	if len(filters) == 0 {
		return rows
	}
	var out []map[string]any
	for _, row := range rows {
		keep := true
		for _, f := range filters {
			if !matchCondition(row[f.Column], f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func matchCondition(value any, f intent.FilterSpec) bool {
	switch f.Operator {
	case "contains":
		return strings.Contains(strings.ToLower(stringValue(value)), strings.ToLower(f.Value))
	case "in":
		for _, candidate := range strings.Split(f.Value, ",") {
			if strings.EqualFold(strings.TrimSpace(candidate), stringValue(value)) {
				return true
			}
		}
		return false
	}

	cmp, ok := compareValues(value, f.Value)
	if !ok {
		return false
	}
	switch f.Operator {
	case "eq":
		return cmp == 0
	case "neq":
		return cmp != 0
	case "gt":
		return cmp > 0
	case "gte":
		return cmp >= 0
	case "lt":
		return cmp < 0
	case "lte":
		return cmp <= 0
	}
	return false
}

// compareValues returns -1/0/1, numerically when both sides parse.
func compareValues(a any, b string) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := inference.ParseNumericValue(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	return strings.Compare(stringValue(a), b), true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		return inference.ParseNumericValue(x)
	}
	return 0, false
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

const groupKeySep = "\x1f"

// aggregateRows groups input rows by the step's dimensions (an empty list is
// a single global group) and computes each declared aggregation. Values that
// fail to parse are excluded from the aggregate, not treated as zero.
func aggregateRows(rows []map[string]any, step plan.Step) []map[string]any {
	if len(rows) == 0 {
		return nil
	}

	type group struct {
		dims map[string]any
		vals map[string][]float64 // by alias
		size int
	}
	groups := map[string]*group{}
	var keys []string

	for _, row := range rows {
		parts := make([]string, len(step.GroupBy))
		for i, dim := range step.GroupBy {
			parts[i] = stringValue(row[dim])
		}
		key := strings.Join(parts, groupKeySep)
		g := groups[key]
		if g == nil {
			g = &group{dims: map[string]any{}, vals: map[string][]float64{}}
			for _, dim := range step.GroupBy {
				g.dims[dim] = row[dim]
			}
			groups[key] = g
			keys = append(keys, key)
		}
		g.size++
		for _, agg := range step.Aggregations {
			if agg.Column == "" {
				continue
			}
			if f, ok := toFloat(row[agg.Column]); ok {
				g.vals[agg.Alias] = append(g.vals[agg.Alias], f)
			}
		}
	}
	// Groups are emitted in key order, compared part by part with datetime
	// and numeric awareness. Trend insights read the first and last rows, so
	// slash-format dates must sort chronologically, not lexically.
	sort.Slice(keys, func(i, j int) bool { return compareGroupKeys(keys[i], keys[j]) < 0 })

	// Global aggregation reports one row per measure.
	if len(step.GroupBy) == 0 {
		g := groups[keys[0]]
		var out []map[string]any
		for _, agg := range step.Aggregations {
			val, ok := foldValues(agg, g.vals[agg.Alias], g.size)
			if !ok {
				continue
			}
			out = append(out, map[string]any{"metric": agg.Alias, "value": val})
		}
		return out
	}

	out := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		row := make(map[string]any, len(g.dims)+len(step.Aggregations))
		for k, v := range g.dims {
			row[k] = v
		}
		for _, agg := range step.Aggregations {
			if val, ok := foldValues(agg, g.vals[agg.Alias], g.size); ok {
				row[agg.Alias] = val
			}
		}
		out = append(out, row)
	}
	return out
}

// compareGroupKeys orders composite group keys part by part.
func compareGroupKeys(a, b string) int {
	pa := strings.Split(a, groupKeySep)
	pb := strings.Split(b, groupKeySep)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if cmp := compareOrdinal(pa[i], pb[i]); cmp != 0 {
			return cmp
		}
	}
	return len(pa) - len(pb)
}

// compareOrdinal compares two raw cell values: chronologically when both
// parse as date/times, numerically when both parse as numbers, lexically
// otherwise.
func compareOrdinal(a, b string) int {
	if ta, okA := inference.ParseDateTimeValue(a); okA {
		if tb, okB := inference.ParseDateTimeValue(b); okB {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			}
			return 0
		}
	}
	if fa, okA := inference.ParseNumericValue(a); okA {
		if fb, okB := inference.ParseNumericValue(b); okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(a, b)
}

func foldValues(agg plan.Aggregation, vals []float64, groupSize int) (float64, bool) {
	if agg.Func == "count" {
		if agg.Column == "" {
			return float64(groupSize), true
		}
		return float64(len(vals)), true
	}
	if len(vals) == 0 {
		return 0, false
	}
	switch agg.Func {
	case "sum", "avg":
		var sum float64
		for _, v := range vals {
			sum += v
		}
		if agg.Func == "avg" {
			return sum / float64(len(vals)), true
		}
		return sum, true
	case "min":
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m, true
	case "max":
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m, true
	}
	return 0, false
}

// sortRows stable-sorts by the given keys; ties preserve prior order.
func sortRows(rows []map[string]any, keys []plan.SortKey) []map[string]any {
	if len(keys) == 0 {
		return rows
	}
	out := make([]map[string]any, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareAny(out[i][k.Column], out[j][k.Column])
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out
}

func compareAny(a, b any) int {
	if fa, okA := toFloat(a); okA {
		if fb, okB := toFloat(b); okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(stringValue(a), stringValue(b))
}

// limitRows truncates to the first n rows, keeping upstream order.
func limitRows(rows []map[string]any, n int) []map[string]any {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
