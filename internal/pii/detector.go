package pii

import (
	"sort"
	"strings"
)

const (
	// maxValueSamples caps how many non-empty values the value-pattern signal
	// scans per column.
	maxValueSamples = 1000
	// maxAuditSamples caps retained (redacted) example matches.
	maxAuditSamples = 3
	// nameMatchConfidence is the fixed confidence of a column-name hit.
	nameMatchConfidence = 0.85
	// highConfidence marks detections treated as strong signals downstream.
	highConfidence = 0.7
)

// Detector scans columns for sensitive data using column-name tokens and
// value patterns.
type Detector struct {
	patterns []Pattern
}

// NewDetector returns a detector with the built-in pattern set plus any
// extras.
func NewDetector(extra ...Pattern) *Detector {
	return &Detector{patterns: append(append([]Pattern{}, defaultPatterns...), extra...)}
}

// Detect evaluates one column. The second return is false when no pattern
// produced a composite confidence above the shared threshold.
func (d *Detector) Detect(column string, values []string) (Detection, bool) {
	samples := sampleNonEmpty(values, maxValueSamples)

	var best Detection
	for _, p := range d.patterns {
		det, ok := d.evaluate(p, column, samples)
		if ok && det.Confidence > best.Confidence {
			best = det
		}
	}
	if best.Confidence <= ConfidenceThreshold {
		return Detection{}, false
	}
	return best, true
}

// DetectColumns runs detection across a set of columns and returns findings
// keyed by column name.
func (d *Detector) DetectColumns(columns map[string][]string) map[string]Detection {
	out := make(map[string]Detection)
	for name, values := range columns {
		if det, ok := d.Detect(name, values); ok {
			out[name] = det
		}
	}
	return out
}

func (d *Detector) evaluate(p Pattern, column string, samples []string) (Detection, bool) {
	nameConf := 0.0
	lower := strings.ToLower(column)
	for _, tok := range p.NameTokens {
		if strings.Contains(lower, tok) {
			nameConf = nameMatchConfidence
			break
		}
	}

	valueConf := 0.0
	var matches []string
	if p.Value != nil && len(samples) > 0 {
		matched := 0
		for _, v := range samples {
			if p.Value.MatchString(v) {
				matched++
				if len(matches) < maxAuditSamples {
					matches = append(matches, v)
				}
			}
		}
		ratio := float64(matched) / float64(len(samples))
		if ratio > ConfidenceThreshold {
			valueConf = ratio
		}
	}

	conf := nameConf
	method := MethodColumnName
	if valueConf > conf {
		conf = valueConf
		method = MethodValuePattern
	}
	if nameConf > 0 && valueConf > 0 {
		method = MethodCombined
	}
	if conf == 0 {
		return Detection{}, false
	}

	det := Detection{
		Column:     column,
		Type:       p.Type,
		Confidence: conf,
		Method:     method,
		Redact:     p.HighRisk || conf >= highConfidence,
	}
	// Samples are only surfaced when the value signal itself cleared the
	// threshold, so audit display never shows obvious non-matches.
	if valueConf > 0 {
		for _, m := range matches {
			det.Samples = append(det.Samples, RedactValue(m))
		}
	}
	if rec, ok := recommendationsByType[p.Type]; ok {
		det.Recommendations = append(det.Recommendations, rec.Description, rec.Implementation)
	}
	return det, true
}

// RedactValue masks a sensitive value for audit display, keeping just enough
// shape to recognize the finding.
func RedactValue(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:2] + strings.Repeat("*", len(v)-4) + v[len(v)-2:]
}

func sampleNonEmpty(values []string, cap int) []string {
	out := make([]string, 0, min(len(values), cap))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(v))
		if len(out) == cap {
			break
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var highRiskTypes = map[Type]bool{
	TypeSSN:         true,
	TypeCreditCard:  true,
	TypeDateOfBirth: true,
}

// RiskLevelFor derives an overall risk grade from the detected PII set.
func RiskLevelFor(detections map[string]Detection) RiskLevel {
	if len(detections) == 0 {
		return RiskLow
	}
	types := make(map[Type]bool)
	for _, d := range detections {
		types[d.Type] = true
	}
	for t := range types {
		if highRiskTypes[t] {
			return RiskCritical
		}
	}
	if len(types) >= 3 {
		return RiskHigh
	}
	return RiskMedium
}

// RecommendationsFor returns deduplicated structured recommendations for the
// detected types, highest priority first.
func RecommendationsFor(detections map[string]Detection) []Recommendation {
	seen := make(map[Type]bool)
	var out []Recommendation
	for _, d := range detections {
		if seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		if rec, ok := recommendationsByType[d.Type]; ok {
			out = append(out, rec)
		}
	}
	rank := map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Priority] != rank[out[j].Priority] {
			return rank[out[i].Priority] < rank[out[j].Priority]
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// HighConfidenceCount counts detections at or above the strong-signal bar.
func HighConfidenceCount(detections map[string]Detection) int {
	n := 0
	for _, d := range detections {
		if d.Confidence >= highConfidence {
			n++
		}
	}
	return n
}
