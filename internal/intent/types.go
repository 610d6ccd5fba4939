package intent

import "github.com/tablechat/tablechat-cli/internal/inference"

// QueryType buckets what a natural-language question is asking for.
type QueryType string

const (
	TypeProfile      QueryType = "profile"
	TypeTrend        QueryType = "trend"
	TypeComparison   QueryType = "comparison"
	TypeAggregation  QueryType = "aggregation"
	TypeFilter       QueryType = "filter"
	TypeRelationship QueryType = "relationship"
	TypeDistribution QueryType = "distribution"
	TypeRanking      QueryType = "ranking"
	TypeUnknown      QueryType = "unknown"
)

// EntityKind tags an extracted query entity.
type EntityKind string

const (
	EntityMeasure   EntityKind = "measure"
	EntityDimension EntityKind = "dimension"
	EntityFilter    EntityKind = "filter"
	EntityTime      EntityKind = "time"
	EntityLimit     EntityKind = "limit"
)

// Entity is one token span extracted from the query.
type Entity struct {
	Kind       EntityKind `json:"kind"`
	Raw        string     `json:"raw"`
	Column     string     `json:"column,omitempty"`
	Operator   string     `json:"operator,omitempty"`
	Confidence float64    `json:"confidence"`
}

// FilterSpec is a resolved filter condition.
type FilterSpec struct {
	Column   string `json:"column"`
	Operator string `json:"operator"` // eq|neq|gt|gte|lt|lte|contains|in
	Value    string `json:"value"`
}

// Intent is the parsed meaning of one user question.
type Intent struct {
	Type        QueryType    `json:"type"`
	Confidence  float64      `json:"confidence"`
	Entities    []Entity     `json:"entities,omitempty"`
	Measures    []string     `json:"measures,omitempty"`
	Dimensions  []string     `json:"dimensions,omitempty"`
	Filters     []FilterSpec `json:"filters,omitempty"`
	TimeColumn  string       `json:"time_column,omitempty"`
	Limit       int          `json:"limit,omitempty"`
	AggFunc     string       `json:"agg_func,omitempty"` // sum|avg|count|min|max
	SortDesc    bool         `json:"sort_desc,omitempty"`
	RequiresLLM bool         `json:"requires_llm"`
	CanUseCache bool         `json:"can_use_cache"`
}

// Alternative records a non-winning interpretation, kept for observability
// and tie-break tuning. Populated whenever more than one pattern matched.
type Alternative struct {
	Type       QueryType `json:"type"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
}

// Result is the classifier output: the winning intent plus ranked
// alternatives.
type Result struct {
	Intent       Intent        `json:"intent"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Column is the slice of schema the classifier needs to ground references.
type Column struct {
	Name string
	Type inference.ColumnType
}
