// Package compliance evaluates detected sensitive-data types against privacy
// and financial regulations and emits per-regulation assessments.
package compliance

import (
	"sort"

	"github.com/tablechat/tablechat-cli/internal/pii"
)

// Regulation names a supported regulatory framework.
type Regulation string

const (
	GDPR   Regulation = "GDPR"
	CCPA   Regulation = "CCPA"
	HIPAA  Regulation = "HIPAA"
	PCIDSS Regulation = "PCI-DSS"
	SOX    Regulation = "SOX"
)

// Requirement is one checklist item under a regulation.
type Requirement struct {
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
	Met       bool   `json:"met"`
}

// AuditActionKind enumerates the structured follow-up actions.
type AuditActionKind string

const (
	ActionLog      AuditActionKind = "log"
	ActionNotify   AuditActionKind = "notify"
	ActionRestrict AuditActionKind = "restrict"
	ActionDelete   AuditActionKind = "delete"
)

// AuditAction is a concrete follow-up a compliance program would take.
type AuditAction struct {
	Kind        AuditActionKind `json:"kind"`
	Description string          `json:"description"`
	Automated   bool            `json:"automated"`
}

// Assessment is the evaluation of one applicable regulation.
type Assessment struct {
	Regulation      Regulation    `json:"regulation"`
	RiskLevel       pii.RiskLevel `json:"risk_level"`
	Requirements    []Requirement `json:"requirements"`
	Recommendations []string      `json:"recommendations"`
	AuditActions    []AuditAction `json:"audit_actions"`
}

// Flag is the compact per-regulation status carried on a security profile.
type Flag struct {
	Regulation     Regulation `json:"regulation"`
	Status         string     `json:"status"` // review_required|action_required
	RequiredAction string     `json:"required_action"`
}

var (
	gdprTriggers = typeSet(pii.TypeEmail, pii.TypeName, pii.TypeAddress, pii.TypePhone, pii.TypeDateOfBirth, pii.TypeIPAddress)
	hipaaTrigger = typeSet(pii.TypeDateOfBirth, pii.TypeSSN, pii.TypeName)
	soxTriggers  = typeSet(pii.TypeSSN, pii.TypeAccountNumber)

	escalationHigh   = typeSet(pii.TypeSSN, pii.TypeCreditCard, pii.TypeDateOfBirth)
	escalationMedium = typeSet(pii.TypeName, pii.TypeAddress, pii.TypePhone, pii.TypeIPAddress)
)

func typeSet(types ...pii.Type) map[pii.Type]bool {
	m := make(map[pii.Type]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

// Assess evaluates every regulation against the detected PII types and
// returns one assessment per applicable regulation.
func Assess(detections map[string]pii.Detection) []Assessment {
	types := make(map[pii.Type]bool)
	for _, d := range detections {
		types[d.Type] = true
	}

	var out []Assessment
	if anyOf(types, gdprTriggers) {
		out = append(out, privacyAssessment(GDPR, types, detections))
		out = append(out, privacyAssessment(CCPA, types, detections))
	}
	if anyOf(types, hipaaTrigger) {
		out = append(out, hipaaAssessment(types))
	}
	if types[pii.TypeCreditCard] {
		out = append(out, pciAssessment())
	}
	if anyOf(types, soxTriggers) {
		out = append(out, soxAssessment(types))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Regulation < out[j].Regulation })
	return out
}

// OverallRisk is the maximum severity across assessments.
func OverallRisk(assessments []Assessment) pii.RiskLevel {
	rank := map[pii.RiskLevel]int{pii.RiskLow: 0, pii.RiskMedium: 1, pii.RiskHigh: 2, pii.RiskCritical: 3}
	best := pii.RiskLow
	for _, a := range assessments {
		if rank[a.RiskLevel] > rank[best] {
			best = a.RiskLevel
		}
	}
	return best
}

// Flags condenses assessments into per-regulation status flags.
func Flags(assessments []Assessment) []Flag {
	out := make([]Flag, 0, len(assessments))
	for _, a := range assessments {
		f := Flag{Regulation: a.Regulation, Status: "review_required"}
		if a.RiskLevel == pii.RiskHigh || a.RiskLevel == pii.RiskCritical {
			f.Status = "action_required"
		}
		if len(a.Recommendations) > 0 {
			f.RequiredAction = a.Recommendations[0]
		}
		out = append(out, f)
	}
	return out
}

func anyOf(detected, triggers map[pii.Type]bool) bool {
	for t := range detected {
		if triggers[t] {
			return true
		}
	}
	return false
}

// privacyRisk escalates on high-risk types or many strong detections.
func privacyRisk(types map[pii.Type]bool, detections map[string]pii.Detection) pii.RiskLevel {
	strong := pii.HighConfidenceCount(detections)
	if anyOf(types, escalationHigh) || strong > 3 {
		return pii.RiskHigh
	}
	if anyOf(types, escalationMedium) || strong > 1 {
		return pii.RiskMedium
	}
	return pii.RiskLow
}

func privacyAssessment(reg Regulation, types map[pii.Type]bool, detections map[string]pii.Detection) Assessment {
	subject := "data subject"
	law := "GDPR"
	if reg == CCPA {
		subject = "consumer"
		law = "CCPA"
	}
	return Assessment{
		Regulation: reg,
		RiskLevel:  privacyRisk(types, detections),
		Requirements: []Requirement{
			{Name: "Lawful basis for processing documented", Mandatory: true},
			{Name: "Personal data inventory maintained", Mandatory: true, Met: true},
			{Name: subject + " access and deletion requests supported", Mandatory: true},
			{Name: "Data minimization applied to stored columns", Mandatory: false},
		},
		Recommendations: []string{
			"Document the processing purpose for the detected personal data columns.",
			"Apply redaction before exporting data outside the analysis session (" + law + ").",
		},
		AuditActions: []AuditAction{
			{Kind: ActionLog, Description: "Record that personal data was processed in this dataset.", Automated: true},
			{Kind: ActionRestrict, Description: "Limit profile access to authorized reviewers.", Automated: false},
		},
	}
}

func hipaaAssessment(types map[pii.Type]bool) Assessment {
	return Assessment{
		Regulation: HIPAA,
		RiskLevel:  pii.RiskHigh,
		Requirements: []Requirement{
			{Name: "PHI identified and catalogued", Mandatory: true, Met: true},
			{Name: "Minimum necessary standard enforced", Mandatory: true},
			{Name: "De-identification per Safe Harbor applied", Mandatory: true, Met: !types[pii.TypeSSN]},
		},
		Recommendations: []string{
			"Treat the dataset as containing protected health identifiers.",
			"Strip direct identifiers before any secondary use.",
		},
		AuditActions: []AuditAction{
			{Kind: ActionLog, Description: "Log PHI access for the retention period.", Automated: true},
			{Kind: ActionNotify, Description: "Notify the privacy officer of the PHI columns found.", Automated: false},
		},
	}
}

func pciAssessment() Assessment {
	return Assessment{
		Regulation: PCIDSS,
		RiskLevel:  pii.RiskCritical,
		Requirements: []Requirement{
			{Name: "Primary account numbers rendered unreadable", Mandatory: true},
			{Name: "Cardholder data retention justified", Mandatory: true},
			{Name: "Access to cardholder data restricted", Mandatory: true},
		},
		Recommendations: []string{
			"Remove full card numbers from the dataset; retain at most the last four digits.",
		},
		AuditActions: []AuditAction{
			{Kind: ActionRestrict, Description: "Block export of the card number column.", Automated: true},
			{Kind: ActionDelete, Description: "Purge raw card numbers after tokenization.", Automated: false},
		},
	}
}

func soxAssessment(types map[pii.Type]bool) Assessment {
	risk := pii.RiskMedium
	if types[pii.TypeSSN] {
		risk = pii.RiskHigh
	}
	return Assessment{
		Regulation: SOX,
		RiskLevel:  risk,
		Requirements: []Requirement{
			{Name: "Financial record access controls in place", Mandatory: true},
			{Name: "Change history for financial data retained", Mandatory: true},
		},
		Recommendations: []string{
			"Restrict account identifiers to finance-approved users.",
		},
		AuditActions: []AuditAction{
			{Kind: ActionLog, Description: "Log access to account-number columns.", Automated: true},
		},
	}
}
