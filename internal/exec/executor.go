// Package exec validates and runs execution plans over an in-memory table.
// Plans are treated as read-only DAG descriptions; steps never mutate shared
// state, each consuming its dependencies' output rows and producing new ones.
package exec

import (
	"fmt"
	"time"

	"github.com/tablechat/tablechat-cli/internal/dataset"
	"github.com/tablechat/tablechat-cli/internal/plan"
)

// Execute validates the plan, runs its steps in dependency order and derives
// insights from the final rows. An empty input table produces an empty
// result, not an error.
func Execute(p *plan.ExecutionPlan, table *dataset.Table) (*ExecutionResult, error) {
	order, err := topoSort(p.Steps)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	byID := stepIndex(p.Steps)
	outputs := make(map[string][]map[string]any, len(p.Steps))
	res := &ExecutionResult{}

	var final []map[string]any
	for _, id := range order {
		step := byID[id]
		input := stepInput(step, outputs, table)
		res.Meta.RowsProcessed += len(input)

		var out []map[string]any
		switch step.Type {
		case plan.StepLoad:
			out = loadRows(table)
		case plan.StepFilter:
			out = filterRows(input, step.Filters)
		case plan.StepAggregate:
			out = aggregateRows(input, step)
		case plan.StepSort:
			out = sortRows(input, step.SortKeys)
		case plan.StepLimit:
			out = limitRows(input, step.Limit)
		default:
			return nil, fmt.Errorf("%w: unknown step type %q", ErrMalformedPlan, step.Type)
		}
		outputs[id] = out
		final = out
		res.Meta.StepsExecuted++
	}

	res.Rows = final
	res.Meta.Duration = time.Since(start)
	res.Insights = summarize(p, final)
	return res, nil
}

func stepIndex(steps []plan.Step) map[string]plan.Step {
	byID := make(map[string]plan.Step, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}
	return byID
}

// dependencies resolves a step's declared edges; steps with no declared
// dependency implicitly depend on the load step.
func dependencies(s plan.Step, hasLoad bool) []string {
	if len(s.DependsOn) > 0 {
		return s.DependsOn
	}
	if s.Type != plan.StepLoad && hasLoad {
		return []string{"load"}
	}
	return nil
}

// topoSort orders steps so every step follows its dependencies, failing on
// cycles before anything executes.
func topoSort(steps []plan.Step) ([]string, error) {
	byID := stepIndex(steps)
	hasLoad := false
	for _, s := range steps {
		if s.Type == plan.StepLoad {
			hasLoad = true
		}
	}

	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for _, s := range steps {
		indegree[s.ID] += 0
		for _, dep := range dependencies(s, hasLoad) {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("%w: step %q depends on unknown step %q", ErrMalformedPlan, s.ID, dep)
			}
			indegree[s.ID]++
			dependents[dep] = append(dependents[dep], s.ID)
		}
	}

	var queue []string
	for _, s := range steps {
		if indegree[s.ID] == 0 {
			queue = append(queue, s.ID)
		}
	}

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(steps) {
		return nil, fmt.Errorf("%w: %d of %d steps unreachable", ErrCircularDependency, len(steps)-len(order), len(steps))
	}
	return order, nil
}

// stepInput returns the output of the step's first dependency. The load step
// reads the table itself.
func stepInput(s plan.Step, outputs map[string][]map[string]any, table *dataset.Table) []map[string]any {
	if s.Type == plan.StepLoad {
		return nil
	}
	if len(s.DependsOn) > 0 {
		return outputs[s.DependsOn[0]]
	}
	return outputs["load"]
}

func loadRows(table *dataset.Table) []map[string]any {
	out := make([]map[string]any, len(table.Rows))
	for i, row := range table.Rows {
		r := make(map[string]any, len(row))
		for k, v := range row {
			r[k] = v
		}
		out[i] = r
	}
	return out
}
