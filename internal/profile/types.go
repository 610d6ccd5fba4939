package profile

import (
	"time"

	"github.com/tablechat/tablechat-cli/internal/compliance"
	"github.com/tablechat/tablechat-cli/internal/inference"
	"github.com/tablechat/tablechat-cli/internal/pii"
)

// ColumnProfile is the per-column slice of a data profile. Built once per
// profiling run and never mutated; re-profiling produces a new value.
type ColumnProfile struct {
	Name           string                  `json:"name"`
	Type           inference.ColumnType    `json:"type"`
	Nullable       bool                    `json:"nullable"`
	Unique         bool                    `json:"unique"`
	NullCount      int                     `json:"null_count"`
	NullPercentage float64                 `json:"null_percentage"`
	UniqueCount    int                     `json:"unique_count"`
	DuplicateCount int                     `json:"duplicate_count"`
	Confidence     float64                 `json:"confidence"`
	SampleValues   []string                `json:"sample_values"`
	Flags          []inference.QualityFlag `json:"flags,omitempty"`
	Stats          inference.Stats         `json:"-"`
}

// QualityIssue is a dataset-level view of one column quality flag.
type QualityIssue struct {
	Column      string                 `json:"column"`
	Kind        string                 `json:"kind"`
	Severity    inference.FlagSeverity `json:"severity"`
	Count       int                    `json:"count"`
	Percentage  float64                `json:"percentage"`
	Description string                 `json:"description"`
}

// QualityMetrics scores the dataset 0-100 overall and per dimension.
type QualityMetrics struct {
	Overall      float64        `json:"overall"`
	Completeness float64        `json:"completeness"`
	Consistency  float64        `json:"consistency"`
	Accuracy     float64        `json:"accuracy"`
	Uniqueness   float64        `json:"uniqueness"`
	Validity     float64        `json:"validity"`
	Issues       []QualityIssue `json:"issues,omitempty"`
}

// Insights carries the human-readable findings derived during profiling.
type Insights struct {
	KeyFindings      []string `json:"key_findings"`
	Trends           []string `json:"trends,omitempty"`
	Anomalies        []string `json:"anomalies,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
	SuggestedQueries []string `json:"suggested_queries"`
}

// FileMeta records the uploaded file's identity.
type FileMeta struct {
	Name        string `json:"name"`
	SizeBytes   int64  `json:"size_bytes"`
	Encoding    string `json:"encoding"`
	Delimiter   string `json:"delimiter"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Checksum    string `json:"checksum"`
}

// SecurityProfile aggregates PII findings and regulatory posture.
type SecurityProfile struct {
	PIIColumns      []pii.Detection      `json:"pii_columns"`
	RiskLevel       pii.RiskLevel        `json:"risk_level"`
	Recommendations []pii.Recommendation `json:"recommendations,omitempty"`
	ComplianceFlags []compliance.Flag    `json:"compliance_flags,omitempty"`
	HasRedaction    bool                 `json:"has_redaction"`
}

// NumericAggregate is a precomputed whole-column aggregate.
type NumericAggregate struct {
	Sum   float64 `json:"sum"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Aggregations holds per-type aggregation maps keyed by column name.
type Aggregations struct {
	Numeric     map[string]NumericAggregate `json:"numeric,omitempty"`
	Categorical map[string]map[string]int   `json:"categorical,omitempty"`
}

// DataProfile is the complete artifact for one uploaded dataset.
type DataProfile struct {
	ID           string              `json:"id"`
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	ExpiresAt    time.Time           `json:"expires_at"`
	File         FileMeta            `json:"file"`
	Columns      []ColumnProfile     `json:"columns"`
	Quality      QualityMetrics      `json:"quality"`
	Security     SecurityProfile     `json:"security"`
	Insights     Insights            `json:"insights"`
	SampleRows   []map[string]string `json:"sample_rows,omitempty"`
	Aggregations Aggregations        `json:"aggregations"`
}

// Expired reports whether the profile is past its retention window.
func (p *DataProfile) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Column returns the profile for the named column, or nil.
func (p *DataProfile) Column(name string) *ColumnProfile {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}

// ColumnsOfType lists column names with the given inferred type.
func (p *DataProfile) ColumnsOfType(t inference.ColumnType) []string {
	var out []string
	for _, c := range p.Columns {
		if c.Type == t {
			out = append(out, c.Name)
		}
	}
	return out
}
