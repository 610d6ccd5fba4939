package pii

// ConfidenceThreshold gates both detector retention and the caller-facing
// IsPII answer. The two boundaries are deliberately the same constant; keep
// them coupled so they cannot drift apart.
const ConfidenceThreshold = 0.3

// Type identifies a category of sensitive data.
type Type string

const (
	TypeEmail         Type = "email"
	TypePhone         Type = "phone"
	TypeName          Type = "name"
	TypeAddress       Type = "address"
	TypeSSN           Type = "ssn"
	TypeCreditCard    Type = "credit_card"
	TypeDateOfBirth   Type = "date_of_birth"
	TypeIPAddress     Type = "ip_address"
	TypeAccountNumber Type = "account_number"
)

// Method records which signal produced a detection.
type Method string

const (
	MethodColumnName   Method = "column_name"
	MethodValuePattern Method = "value_pattern"
	MethodCombined     Method = "combined"
)

// Detection is one per-column PII finding.
type Detection struct {
	Column          string   `json:"column"`
	Type            Type     `json:"type"`
	Confidence      float64  `json:"confidence"`
	Method          Method   `json:"method"`
	Samples         []string `json:"samples"` // redacted, at most 3
	Recommendations []string `json:"recommendations"`
	Redact          bool     `json:"redact"`
}

// IsPII reports whether the detection clears the shared confidence threshold.
func (d Detection) IsPII() bool { return d.Confidence > ConfidenceThreshold }

// RiskLevel grades the sensitivity of a dataset's PII surface.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3,
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

// Recommendation is a structured remediation suggestion.
type Recommendation struct {
	Type           Type   `json:"type"`
	Priority       string `json:"priority"`
	Description    string `json:"description"`
	Implementation string `json:"implementation"`
}
