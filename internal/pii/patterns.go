package pii

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Pattern pairs column-name tokens with an optional value regexp for one PII
// type. Value patterns stay intentionally loose; the match-ratio threshold
// does the filtering.
type Pattern struct {
	Type       Type
	NameTokens []string
	Value      *regexp.Regexp
	HighRisk   bool
}

var defaultPatterns = []Pattern{
	{
		Type:       TypeEmail,
		NameTokens: []string{"email", "mail", "user_email", "e-mail"},
		Value:      regexp.MustCompile(`^[\w.+-]+@[\w-]+\.[\w.-]+$`),
	},
	{
		Type:       TypePhone,
		NameTokens: []string{"phone", "mobile", "tel", "fax", "cell"},
		Value:      regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`),
	},
	{
		Type:       TypeName,
		NameTokens: []string{"name", "first_name", "last_name", "full_name", "surname"},
		Value:      regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z'-]+)+$`),
	},
	{
		Type:       TypeAddress,
		NameTokens: []string{"address", "street", "city", "zip", "postal"},
		Value:      regexp.MustCompile(`^\d+\s+[A-Za-z0-9.'\s]+\s(?:St|Street|Ave|Avenue|Rd|Road|Blvd|Lane|Ln|Dr|Drive)\b`),
	},
	{
		Type:       TypeSSN,
		NameTokens: []string{"ssn", "social_security", "social security"},
		Value:      regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`),
		HighRisk:   true,
	},
	{
		Type:       TypeCreditCard,
		NameTokens: []string{"credit_card", "card_number", "cc_number", "pan"},
		Value:      regexp.MustCompile(`^(?:\d[ -]?){13,19}$`),
		HighRisk:   true,
	},
	{
		Type:       TypeDateOfBirth,
		NameTokens: []string{"dob", "date_of_birth", "birth_date", "birthdate", "birthday"},
		HighRisk:   true,
	},
	{
		Type:       TypeIPAddress,
		NameTokens: []string{"ip", "ip_address", "ipaddr"},
		Value:      regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}$`),
	},
	{
		Type:       TypeAccountNumber,
		NameTokens: []string{"account_number", "acct", "iban", "routing"},
	},
}

// PatternFile is the YAML shape for user-supplied extra patterns.
type PatternFile struct {
	Patterns []struct {
		Type       string   `yaml:"type"`
		NameTokens []string `yaml:"name_tokens"`
		Value      string   `yaml:"value_pattern"`
		HighRisk   bool     `yaml:"high_risk"`
	} `yaml:"patterns"`
}

// LoadPatternFile parses extra detection patterns from a YAML file.
func LoadPatternFile(path string) ([]Pattern, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var pf PatternFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	out := make([]Pattern, 0, len(pf.Patterns))
	for _, p := range pf.Patterns {
		entry := Pattern{Type: Type(p.Type), NameTokens: p.NameTokens, HighRisk: p.HighRisk}
		if p.Value != "" {
			re, err := regexp.Compile(p.Value)
			if err != nil {
				return nil, fmt.Errorf("compile pattern for %s: %w", p.Type, err)
			}
			entry.Value = re
		}
		out = append(out, entry)
	}
	return out, nil
}

var recommendationsByType = map[Type]Recommendation{
	TypeEmail: {
		Type: TypeEmail, Priority: "medium",
		Description:    "Email addresses identify individuals directly.",
		Implementation: "Mask the local part before display or export.",
	},
	TypePhone: {
		Type: TypePhone, Priority: "medium",
		Description:    "Phone numbers identify individuals directly.",
		Implementation: "Retain only the last four digits.",
	},
	TypeName: {
		Type: TypeName, Priority: "medium",
		Description:    "Personal names identify individuals directly.",
		Implementation: "Pseudonymize or tokenize names before analysis.",
	},
	TypeAddress: {
		Type: TypeAddress, Priority: "medium",
		Description:    "Street addresses locate individuals.",
		Implementation: "Generalize to city or postal region.",
	},
	TypeSSN: {
		Type: TypeSSN, Priority: "critical",
		Description:    "Social security numbers are high-risk identifiers.",
		Implementation: "Remove or encrypt at rest; never display in full.",
	},
	TypeCreditCard: {
		Type: TypeCreditCard, Priority: "critical",
		Description:    "Card numbers fall under PCI-DSS.",
		Implementation: "Tokenize and keep only the last four digits.",
	},
	TypeDateOfBirth: {
		Type: TypeDateOfBirth, Priority: "high",
		Description:    "Birth dates combine with other fields to identify individuals.",
		Implementation: "Truncate to birth year.",
	},
	TypeIPAddress: {
		Type: TypeIPAddress, Priority: "low",
		Description:    "IP addresses are personal data under GDPR.",
		Implementation: "Zero the final octet.",
	},
	TypeAccountNumber: {
		Type: TypeAccountNumber, Priority: "high",
		Description:    "Account numbers enable financial access.",
		Implementation: "Mask all but the last four characters.",
	},
}
