// Package plan turns a classified query intent into an ordered,
// dependency-annotated sequence of execution steps.
package plan

import (
	"errors"
	"fmt"

	"github.com/tablechat/tablechat-cli/internal/intent"
)

// StepType enumerates the supported step kinds.
type StepType string

const (
	StepLoad      StepType = "load"
	StepFilter    StepType = "filter"
	StepAggregate StepType = "aggregate"
	StepSort      StepType = "sort"
	StepLimit     StepType = "limit"
)

// Aggregation is one measure computation within an aggregate step.
type Aggregation struct {
	Column string `json:"column"` // empty means count rows
	Func   string `json:"func"`   // sum|avg|count|min|max
	Alias  string `json:"alias"`
}

// SortKey orders result rows by one column.
type SortKey struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

// Step is one node of the execution DAG. Steps with an empty DependsOn list
// implicitly depend on the load step.
type Step struct {
	ID            string              `json:"id"`
	Type          StepType            `json:"type"`
	Operation     string              `json:"operation"`
	Filters       []intent.FilterSpec `json:"filters,omitempty"`
	Aggregations  []Aggregation       `json:"aggregations,omitempty"`
	GroupBy       []string            `json:"group_by,omitempty"`
	SortKeys      []SortKey           `json:"sort_keys,omitempty"`
	Limit         int                 `json:"limit,omitempty"`
	EstimatedCost int                 `json:"estimated_cost"`
	DependsOn     []string            `json:"depends_on,omitempty"`
}

// ExecutionPlan is an immutable DAG description. The executor treats it as
// read-only.
type ExecutionPlan struct {
	ID            string `json:"id"`
	QueryType     intent.QueryType
	Steps         []Step `json:"steps"`
	EstimatedCost int    `json:"estimated_cost"`
}

// ErrUnsupportedIntent marks intents with no canonical step sequence;
// callers route these to the fallback path.
var ErrUnsupportedIntent = errors.New("intent has no execution plan")

// defaultRankLimit caps ranking results when the query names no explicit N.
const defaultRankLimit = 10

// Build maps the intent's query type onto its canonical step sequence.
func Build(in intent.Intent, schema []intent.Column) (*ExecutionPlan, error) {
	switch in.Type {
	case intent.TypeAggregation, intent.TypeFilter, intent.TypeRanking,
		intent.TypeTrend, intent.TypeComparison, intent.TypeDistribution:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedIntent, in.Type)
	}
	if err := validateColumns(in, schema); err != nil {
		return nil, err
	}

	b := &builder{plan: &ExecutionPlan{ID: "plan_" + string(in.Type), QueryType: in.Type}}
	b.add(Step{ID: "load", Type: StepLoad, Operation: "load_table", EstimatedCost: 1})

	switch in.Type {
	case intent.TypeAggregation:
		b.aggregate(in, nil)
	case intent.TypeFilter:
		b.filter(in)
		b.aggregate(in, nil)
	case intent.TypeRanking:
		dims := in.Dimensions
		b.aggregate(in, dims)
		key := measureAlias(in)
		b.add(Step{ID: "sort", Type: StepSort, Operation: "sort_rows",
			SortKeys: []SortKey{{Column: key, Desc: in.SortDesc}}, EstimatedCost: 1})
		limit := in.Limit
		if limit <= 0 {
			limit = defaultRankLimit
		}
		b.add(Step{ID: "limit", Type: StepLimit, Operation: "limit_rows", Limit: limit, EstimatedCost: 0})
	case intent.TypeTrend:
		group := in.Dimensions
		if in.TimeColumn != "" {
			group = append([]string{in.TimeColumn}, group...)
		}
		b.aggregate(in, group)
	case intent.TypeComparison:
		if len(in.Filters) > 0 {
			b.filter(in)
		}
		b.aggregate(in, in.Dimensions)
		key := measureAlias(in)
		b.add(Step{ID: "sort", Type: StepSort, Operation: "sort_rows",
			SortKeys: []SortKey{{Column: key, Desc: true}}, EstimatedCost: 1})
	case intent.TypeDistribution:
		agg := in
		agg.Measures = nil
		agg.AggFunc = "count"
		b.aggregate(agg, in.Dimensions)
	}

	for _, s := range b.plan.Steps {
		b.plan.EstimatedCost += s.EstimatedCost
	}
	return b.plan, nil
}

type builder struct {
	plan   *ExecutionPlan
	lastID string
}

// add appends a step, wiring its dependency on the previous step.
func (b *builder) add(s Step) {
	if b.lastID != "" {
		s.DependsOn = []string{b.lastID}
	}
	b.plan.Steps = append(b.plan.Steps, s)
	b.lastID = s.ID
}

func (b *builder) filter(in intent.Intent) {
	b.add(Step{ID: "filter", Type: StepFilter, Operation: "filter_rows",
		Filters: in.Filters, EstimatedCost: 1})
}

// aggregate adds the aggregate step; grouped aggregation costs more than a
// global fold.
func (b *builder) aggregate(in intent.Intent, groupBy []string) {
	cost := 1
	if len(groupBy) > 0 {
		cost = 2
	}
	var aggs []Aggregation
	fn := in.AggFunc
	if fn == "" {
		fn = "sum"
	}
	if len(in.Measures) == 0 {
		aggs = append(aggs, Aggregation{Func: "count", Alias: "count"})
	}
	for _, m := range in.Measures {
		aggs = append(aggs, Aggregation{Column: m, Func: fn, Alias: MetricName(fn, m)})
	}
	b.add(Step{ID: "aggregate", Type: StepAggregate, Operation: "aggregate_groups",
		Aggregations: aggs, GroupBy: groupBy, EstimatedCost: cost})
}

// MetricName builds the output column for one aggregation, e.g.
// avg+salary -> average_salary.
func MetricName(fn, column string) string {
	names := map[string]string{"avg": "average", "sum": "total", "count": "count", "min": "min", "max": "max"}
	label, ok := names[fn]
	if !ok {
		label = fn
	}
	if column == "" {
		return label
	}
	return label + "_" + column
}

func measureAlias(in intent.Intent) string {
	fn := in.AggFunc
	if fn == "" {
		fn = "sum"
	}
	if len(in.Measures) == 0 {
		return "count"
	}
	return MetricName(fn, in.Measures[0])
}

// validateColumns rejects intents referencing columns absent from the schema.
func validateColumns(in intent.Intent, schema []intent.Column) error {
	known := make(map[string]bool, len(schema))
	for _, c := range schema {
		known[c.Name] = true
	}
	check := func(name string) error {
		if name != "" && !known[name] {
			return fmt.Errorf("column %q not found in schema", name)
		}
		return nil
	}
	for _, m := range in.Measures {
		if err := check(m); err != nil {
			return err
		}
	}
	for _, d := range in.Dimensions {
		if err := check(d); err != nil {
			return err
		}
	}
	for _, f := range in.Filters {
		if err := check(f.Column); err != nil {
			return err
		}
	}
	return check(in.TimeColumn)
}
