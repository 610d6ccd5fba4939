package inference

import "time"

// ColumnType is the semantic type inferred for a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDateTime    ColumnType = "datetime"
	TypeBoolean     ColumnType = "boolean"
	TypeText        ColumnType = "text"
)

// Stats is the tagged statistics union. Exactly one concrete variant exists
// per column type; consumers switch on the concrete type and must handle all
// of NumericStats, CategoricalStats, DateTimeStats and TextStats. Boolean
// columns carry CategoricalStats over their normalized tokens.
type Stats interface {
	statsVariant()
}

// HistogramBin is one equal-width bin over a numeric range.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// NumericStats summarizes a numeric column.
type NumericStats struct {
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	Mode        []float64       `json:"mode"`
	StdDev      float64         `json:"std_dev"`
	Variance    float64         `json:"variance"`
	Percentiles map[int]float64 `json:"percentiles"`
	Histogram   []HistogramBin  `json:"histogram"`
	Outliers    []float64       `json:"outliers"`
}

func (NumericStats) statsVariant() {}

// ValueCount is a value with its occurrence count and share.
type ValueCount struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoricalStats summarizes a low-cardinality column.
type CategoricalStats struct {
	UniqueCount  int            `json:"unique_count"`
	TopValues    []ValueCount   `json:"top_values"`
	Entropy      float64        `json:"entropy"`
	Mode         string         `json:"mode"`
	Distribution map[string]int `json:"distribution"`
}

func (CategoricalStats) statsVariant() {}

// TimeGap marks a hole in an otherwise regular time series.
type TimeGap struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DateTimeStats summarizes a datetime column.
type DateTimeStats struct {
	Min       time.Time `json:"min"`
	Max       time.Time `json:"max"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Frequency string    `json:"frequency"` // daily|weekly|monthly|yearly|irregular
	Trend     string    `json:"trend"`     // increasing|decreasing|stable
	Gaps      []TimeGap `json:"gaps"`
}

func (DateTimeStats) statsVariant() {}

// WordCount is a token with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TextStats summarizes a free-text column.
type TextStats struct {
	AvgLength   float64     `json:"avg_length"`
	MinLength   int         `json:"min_length"`
	MaxLength   int         `json:"max_length"`
	CommonWords []WordCount `json:"common_words"`
	Encoding    string      `json:"encoding"`
	Languages   []string    `json:"languages"`
}

func (TextStats) statsVariant() {}

// FlagSeverity grades a quality flag.
type FlagSeverity string

const (
	SeverityLow    FlagSeverity = "low"
	SeverityMedium FlagSeverity = "medium"
	SeverityHigh   FlagSeverity = "high"
)

// QualityFlag marks a per-column data quality issue.
type QualityFlag struct {
	Kind        string       `json:"kind"`
	Severity    FlagSeverity `json:"severity"`
	Count       int          `json:"count"`
	Percentage  float64      `json:"percentage"`
	Description string       `json:"description"`
}

// Result is the outcome of inferring one column.
type Result struct {
	Column      string
	Type        ColumnType
	Confidence  float64
	Stats       Stats
	NullCount   int
	NullPercent float64
	UniqueCount int
	Flags       []QualityFlag
}
