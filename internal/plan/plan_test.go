package plan_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/inference"
	"github.com/tablechat/tablechat-cli/internal/intent"
	"github.com/tablechat/tablechat-cli/internal/plan"
)

func schema() []intent.Column {
	return []intent.Column{
		{Name: "department", Type: inference.TypeCategorical},
		{Name: "salary", Type: inference.TypeNumeric},
		{Name: "hired", Type: inference.TypeDateTime},
	}
}

func stepTypes(p *plan.ExecutionPlan) []plan.StepType {
	out := make([]plan.StepType, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Type
	}
	return out
}

func TestBuildAggregation(t *testing.T) {
	in := intent.Intent{Type: intent.TypeAggregation, AggFunc: "avg", Measures: []string{"salary"}}
	p, err := plan.Build(in, schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []plan.StepType{plan.StepLoad, plan.StepAggregate}
	if got := stepTypes(p); !equalSteps(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	agg := p.Steps[1]
	if len(agg.Aggregations) != 1 || agg.Aggregations[0].Alias != "average_salary" {
		t.Fatalf("unexpected aggregations: %+v", agg.Aggregations)
	}
	if len(agg.DependsOn) != 1 || agg.DependsOn[0] != "load" {
		t.Fatalf("aggregate must depend on load, got %v", agg.DependsOn)
	}
}

func TestBuildFilterThenAggregate(t *testing.T) {
	in := intent.Intent{
		Type:     intent.TypeFilter,
		AggFunc:  "count",
		Filters:  []intent.FilterSpec{{Column: "salary", Operator: "gt", Value: "50000"}},
		Measures: []string{"salary"},
	}
	p, err := plan.Build(in, schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []plan.StepType{plan.StepLoad, plan.StepFilter, plan.StepAggregate}
	if got := stepTypes(p); !equalSteps(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if p.Steps[2].DependsOn[0] != "filter" {
		t.Fatalf("aggregate should chain off filter, got %v", p.Steps[2].DependsOn)
	}
}

func TestBuildRanking(t *testing.T) {
	in := intent.Intent{
		Type:       intent.TypeRanking,
		AggFunc:    "max",
		Measures:   []string{"salary"},
		Dimensions: []string{"department"},
		SortDesc:   true,
	}
	p, err := plan.Build(in, schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []plan.StepType{plan.StepLoad, plan.StepAggregate, plan.StepSort, plan.StepLimit}
	if got := stepTypes(p); !equalSteps(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if p.Steps[3].Limit != 10 {
		t.Fatalf("ranking defaults to limit 10, got %d", p.Steps[3].Limit)
	}
	sortStep := p.Steps[2]
	if len(sortStep.SortKeys) != 1 || sortStep.SortKeys[0].Column != "max_salary" || !sortStep.SortKeys[0].Desc {
		t.Fatalf("unexpected sort keys: %+v", sortStep.SortKeys)
	}
}

func TestBuildTrendGroupsByTime(t *testing.T) {
	in := intent.Intent{
		Type:       intent.TypeTrend,
		AggFunc:    "avg",
		Measures:   []string{"salary"},
		TimeColumn: "hired",
	}
	p, err := plan.Build(in, schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	agg := p.Steps[1]
	if len(agg.GroupBy) != 1 || agg.GroupBy[0] != "hired" {
		t.Fatalf("trend must group by the time column, got %v", agg.GroupBy)
	}
}

func TestBuildDistributionCounts(t *testing.T) {
	in := intent.Intent{Type: intent.TypeDistribution, Dimensions: []string{"department"}}
	p, err := plan.Build(in, schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	agg := p.Steps[1]
	if len(agg.Aggregations) != 1 || agg.Aggregations[0].Func != "count" {
		t.Fatalf("distribution counts rows, got %+v", agg.Aggregations)
	}
}

func TestBuildUnsupportedIntents(t *testing.T) {
	for _, typ := range []intent.QueryType{intent.TypeProfile, intent.TypeRelationship, intent.TypeUnknown} {
		_, err := plan.Build(intent.Intent{Type: typ}, schema())
		if !errors.Is(err, plan.ErrUnsupportedIntent) {
			t.Fatalf("%s: expected ErrUnsupportedIntent, got %v", typ, err)
		}
	}
}

func TestBuildRejectsUnknownColumn(t *testing.T) {
	in := intent.Intent{Type: intent.TypeAggregation, AggFunc: "sum", Measures: []string{"bonus"}}
	_, err := plan.Build(in, schema())
	if err == nil || !strings.Contains(err.Error(), "bonus") {
		t.Fatalf("expected unknown-column error naming the column, got %v", err)
	}
}

func TestMetricName(t *testing.T) {
	cases := map[[2]string]string{
		{"avg", "salary"}: "average_salary",
		{"sum", "sales"}:  "total_sales",
		{"count", ""}:     "count",
		{"min", "age"}:    "min_age",
	}
	for in, want := range cases {
		if got := plan.MetricName(in[0], in[1]); got != want {
			t.Fatalf("MetricName(%s,%s) = %s, want %s", in[0], in[1], got, want)
		}
	}
}

func equalSteps(a, b []plan.StepType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
