package exec

import (
	"fmt"
	"math"

	"github.com/tablechat/tablechat-cli/internal/intent"
	"github.com/tablechat/tablechat-cli/internal/plan"
)

// trendStableBand is the percent-change band treated as "stable".
const trendStableBand = 1.0

// summarize derives insights from the final rows, type-aware per plan kind.
func summarize(p *plan.ExecutionPlan, rows []map[string]any) Insights {
	ins := Insights{}
	if len(rows) == 0 {
		ins.KeyFindings = append(ins.KeyFindings, "No rows matched the query")
		return ins
	}

	agg := finalAggregateStep(p)
	if agg == nil {
		ins.KeyFindings = append(ins.KeyFindings, fmt.Sprintf("Query returned %d row(s)", len(rows)))
		return ins
	}

	ins.Aggregations = map[string]AggregateSummary{}
	for _, a := range agg.Aggregations {
		if summary, ok := summarizeMeasure(rows, a, len(agg.GroupBy) == 0); ok {
			ins.Aggregations[a.Alias] = summary
			ins.KeyFindings = append(ins.KeyFindings,
				fmt.Sprintf("%s: min %.4g, max %.4g, avg %.4g across %d row(s)",
					a.Alias, summary.Min, summary.Max, summary.Avg, summary.Count))
		}
	}

	if p.QueryType == intent.TypeTrend && len(agg.GroupBy) > 0 {
		ins.Trends = trends(rows, agg)
		for _, t := range ins.Trends {
			ins.KeyFindings = append(ins.KeyFindings,
				fmt.Sprintf("%s is %s (%.1f%% change)", t.Measure, t.Direction, t.ChangePercent))
		}
	}
	return ins
}

func finalAggregateStep(p *plan.ExecutionPlan) *plan.Step {
	for i := len(p.Steps) - 1; i >= 0; i-- {
		if p.Steps[i].Type == plan.StepAggregate {
			return &p.Steps[i]
		}
	}
	return nil
}

// summarizeMeasure folds one measure across the result rows. Global
// aggregates store values under "value" keyed by the metric row.
func summarizeMeasure(rows []map[string]any, a plan.Aggregation, global bool) (AggregateSummary, bool) {
	var vals []float64
	for _, row := range rows {
		if global {
			if row["metric"] != a.Alias {
				continue
			}
			if f, ok := toFloat(row["value"]); ok {
				vals = append(vals, f)
			}
			continue
		}
		if f, ok := toFloat(row[a.Alias]); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return AggregateSummary{}, false
	}
	s := AggregateSummary{Min: vals[0], Max: vals[0], Count: len(vals)}
	for _, v := range vals {
		s.Sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = s.Sum / float64(len(vals))
	return s, true
}

// trends compares the first and last grouped value along the time/ordinal
// dimension. Rows arrive in group-key order, compared with datetime and
// numeric awareness, so the endpoints are chronological for every supported
// date format.
func trends(rows []map[string]any, agg *plan.Step) []Trend {
	var out []Trend
	for _, a := range agg.Aggregations {
		first, okF := toFloat(rows[0][a.Alias])
		last, okL := toFloat(rows[len(rows)-1][a.Alias])
		if !okF || !okL {
			continue
		}
		t := Trend{Measure: a.Alias, Direction: "stable"}
		if first != 0 {
			t.ChangePercent = (last - first) / math.Abs(first) * 100
		}
		switch {
		case t.ChangePercent > trendStableBand:
			t.Direction = "increasing"
		case t.ChangePercent < -trendStableBand:
			t.Direction = "decreasing"
		case first == 0 && last > 0:
			t.Direction = "increasing"
		}
		out = append(out, t)
	}
	return out
}
