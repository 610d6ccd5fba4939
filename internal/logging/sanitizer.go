package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match email addresses embedded in queries or errors
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Pattern to match SSN-shaped values (123-45-6789)
	ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// Pattern to match card-shaped digit runs (13-16 digits, optional separators)
	cardPattern = regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)

	// Pattern to match potential API keys
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)
)

// SanitizeQuery truncates a user query and scrubs value-shaped sensitive
// data before logging. Queries quote cell values verbatim, so they get the
// same treatment as row data.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	sanitized := query
	if len(sanitized) > MaxQueryLogLength {
		sanitized = sanitized[:MaxQueryLogLength] + "..."
	}
	return scrub(sanitized)
}

// SanitizeError scrubs error messages that might echo cell values.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return scrub(err.Error())
}

// SanitizeValue scrubs a single cell value for logging.
func SanitizeValue(v string) string {
	return scrub(TruncateString(v, MaxQueryLogLength))
}

func scrub(s string) string {
	s = emailPattern.ReplaceAllString(s, RedactedText)
	s = ssnPattern.ReplaceAllString(s, RedactedText)
	s = cardPattern.ReplaceAllString(s, RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	return s
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
