package exec

import (
	"errors"
	"time"
)

// ErrCircularDependency is returned when a plan's step graph contains a
// cycle. Detected during validation, before any step runs.
var ErrCircularDependency = errors.New("circular dependency detected")

// ErrMalformedPlan is returned when a step references an unknown dependency.
var ErrMalformedPlan = errors.New("malformed execution plan")

// Meta records execution bookkeeping.
type Meta struct {
	StepsExecuted int           `json:"steps_executed"`
	RowsProcessed int           `json:"rows_processed"`
	Duration      time.Duration `json:"duration"`
}

// AggregateSummary describes one measure across the final result rows.
type AggregateSummary struct {
	Sum   float64 `json:"sum"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Trend describes direction and magnitude along a time or ordinal dimension.
type Trend struct {
	Measure       string  `json:"measure"`
	Direction     string  `json:"direction"` // increasing|decreasing|stable
	ChangePercent float64 `json:"change_percent"`
}

// Insights carries derived findings for one execution.
type Insights struct {
	KeyFindings  []string                    `json:"key_findings,omitempty"`
	Aggregations map[string]AggregateSummary `json:"aggregations,omitempty"`
	Trends       []Trend                     `json:"trends,omitempty"`
}

// ExecutionResult is the outcome of running one plan.
type ExecutionResult struct {
	Rows     []map[string]any `json:"rows"`
	Meta     Meta             `json:"meta"`
	Insights Insights         `json:"insights"`
}
