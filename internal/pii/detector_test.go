package pii_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/pii"
)

func TestDetectEmailByNameAndValue(t *testing.T) {
	d := pii.NewDetector()
	det, ok := d.Detect("user_email", []string{"ana@example.com", "bo@example.org", "not-an-email"})
	if !ok {
		t.Fatal("expected a detection")
	}
	if det.Type != pii.TypeEmail {
		t.Fatalf("expected email, got %s", det.Type)
	}
	if det.Method != pii.MethodCombined {
		t.Fatalf("name and value signals both fire, method should be combined, got %s", det.Method)
	}
	if !det.IsPII() {
		t.Fatalf("confidence %v should clear the threshold", det.Confidence)
	}
}

func TestDetectConfidenceBoundary(t *testing.T) {
	d := pii.NewDetector()

	// 30 of 100 values match: ratio exactly 0.30 does NOT clear the strict
	// threshold, so the value signal contributes nothing.
	values := make([]string, 100)
	for i := range values {
		if i < 30 {
			values[i] = fmt.Sprintf("user%d@example.com", i)
		} else {
			values[i] = fmt.Sprintf("note %d", i)
		}
	}
	if _, ok := d.Detect("field_a", values); ok {
		t.Fatal("ratio 0.30 must not produce a detection")
	}

	// 31 of 100: ratio 0.31 clears it.
	values[30] = "extra@example.com"
	det, ok := d.Detect("field_a", values)
	if !ok {
		t.Fatal("ratio 0.31 should produce a detection")
	}
	if det.Method != pii.MethodValuePattern {
		t.Fatalf("only the value signal fired, got method %s", det.Method)
	}
	if !det.IsPII() {
		t.Fatalf("0.31 > 0.30 must report PII, confidence %v", det.Confidence)
	}
}

func TestDetectSamplesAreRedactedAndCapped(t *testing.T) {
	d := pii.NewDetector()
	values := []string{
		"111-22-3333", "222-33-4444", "333-44-5555", "444-55-6666", "555-66-7777",
	}
	det, ok := d.Detect("ssn", values)
	if !ok {
		t.Fatal("expected ssn detection")
	}
	if len(det.Samples) > 3 {
		t.Fatalf("at most 3 samples, got %d", len(det.Samples))
	}
	for _, s := range det.Samples {
		if !strings.Contains(s, "*") {
			t.Fatalf("sample %q is not redacted", s)
		}
	}
	if !det.Redact {
		t.Fatal("high-risk types must be flagged for redaction")
	}
}

func TestRedactValue(t *testing.T) {
	if got := pii.RedactValue("123-45-6789"); got != "12*******89" {
		t.Fatalf("unexpected redaction: %q", got)
	}
	if got := pii.RedactValue("abcd"); got != "****" {
		t.Fatalf("short values redact fully, got %q", got)
	}
}

func TestRiskLevels(t *testing.T) {
	if got := pii.RiskLevelFor(nil); got != pii.RiskLow {
		t.Fatalf("no detections is low risk, got %s", got)
	}
	dets := map[string]pii.Detection{
		"ssn": {Column: "ssn", Type: pii.TypeSSN, Confidence: 0.9},
	}
	if got := pii.RiskLevelFor(dets); got != pii.RiskCritical {
		t.Fatalf("ssn is critical, got %s", got)
	}
	dets = map[string]pii.Detection{
		"email": {Type: pii.TypeEmail, Confidence: 0.9},
		"phone": {Type: pii.TypePhone, Confidence: 0.9},
		"ip":    {Type: pii.TypeIPAddress, Confidence: 0.9},
	}
	if got := pii.RiskLevelFor(dets); got != pii.RiskHigh {
		t.Fatalf("3 distinct types is high, got %s", got)
	}
}

func TestRecommendationsSortedByPriority(t *testing.T) {
	dets := map[string]pii.Detection{
		"ip":   {Type: pii.TypeIPAddress},
		"card": {Type: pii.TypeCreditCard},
	}
	recs := pii.RecommendationsFor(dets)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Type != pii.TypeCreditCard {
		t.Fatalf("critical priority first, got %v", recs[0].Type)
	}
}

func TestDetectColumnsSkipsClean(t *testing.T) {
	d := pii.NewDetector()
	out := d.DetectColumns(map[string][]string{
		"quantity": {"1", "2", "3"},
		"email":    {"a@b.com", "c@d.com", "e@f.org"},
	})
	if _, ok := out["quantity"]; ok {
		t.Fatal("quantity must not be flagged")
	}
	if _, ok := out["email"]; !ok {
		t.Fatal("email column should be flagged")
	}
}

func TestMaxRisk(t *testing.T) {
	cases := []struct {
		a, b, want pii.RiskLevel
	}{
		{pii.RiskLow, pii.RiskLow, pii.RiskLow},
		{pii.RiskMedium, pii.RiskHigh, pii.RiskHigh},
		{pii.RiskCritical, pii.RiskLow, pii.RiskCritical},
		{pii.RiskHigh, pii.RiskMedium, pii.RiskHigh},
	}
	for _, c := range cases {
		if got := pii.MaxRisk(c.a, c.b); got != c.want {
			t.Fatalf("MaxRisk(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}
