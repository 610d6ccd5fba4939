package inference_test

import (
	"reflect"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/inference"
)

func TestInferBooleanBeforeCategorical(t *testing.T) {
	// Low unique ratio would also satisfy the categorical check; boolean
	// must win on priority.
	res := inference.Infer("active", []string{"true", "false", "yes", "no"})
	if res.Type != inference.TypeBoolean {
		t.Fatalf("expected boolean, got %s (conf %.2f)", res.Type, res.Confidence)
	}
	if _, ok := res.Stats.(inference.CategoricalStats); !ok {
		t.Fatalf("boolean columns carry categorical stats, got %T", res.Stats)
	}
}

func TestInferNumericMixedShapes(t *testing.T) {
	res := inference.Infer("price", []string{"10", "3.5", "1e3", "15%", "$1,200.50"})
	if res.Type != inference.TypeNumeric {
		t.Fatalf("expected numeric, got %s", res.Type)
	}
	stats, ok := res.Stats.(inference.NumericStats)
	if !ok {
		t.Fatalf("expected NumericStats, got %T", res.Stats)
	}
	if stats.Min != 0.15 {
		t.Fatalf("percent should normalize to 0.15, min = %v", stats.Min)
	}
	if stats.Max != 1200.50 {
		t.Fatalf("currency should strip symbols, max = %v", stats.Max)
	}
}

func TestInferDateTime(t *testing.T) {
	res := inference.Infer("created", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"})
	if res.Type != inference.TypeDateTime {
		t.Fatalf("expected datetime, got %s", res.Type)
	}
	stats, ok := res.Stats.(inference.DateTimeStats)
	if !ok {
		t.Fatalf("expected DateTimeStats, got %T", res.Stats)
	}
	if stats.Frequency != "daily" {
		t.Fatalf("expected daily frequency, got %s", stats.Frequency)
	}
	if stats.Trend != "increasing" {
		t.Fatalf("expected increasing trend, got %s", stats.Trend)
	}
}

func TestInferEpochOutOfRangeRejected(t *testing.T) {
	if _, ok := inference.ParseDateTimeValue("9999999999"); ok {
		t.Fatal("epoch far outside the year range must be rejected")
	}
	if tm, ok := inference.ParseDateTimeValue("1700000000"); !ok || tm.Year() != 2023 {
		t.Fatalf("valid epoch seconds should parse, got %v %v", tm, ok)
	}
}

func TestInferCategoricalLowRatio(t *testing.T) {
	values := make([]string, 0, 39)
	for i := 0; i < 13; i++ {
		values = append(values, "red", "green", "blue")
	}
	res := inference.Infer("color", values)
	if res.Type != inference.TypeCategorical {
		t.Fatalf("expected categorical, got %s", res.Type)
	}
	if res.Confidence != 0.9 {
		t.Fatalf("unique ratio under 0.1 stages confidence 0.9, got %v", res.Confidence)
	}
}

func TestInferSparseColumnIsText(t *testing.T) {
	res := inference.Infer("notes", []string{"42", "", ""})
	if res.Type != inference.TypeText {
		t.Fatalf("fewer than 3 non-null values must resolve to text, got %s", res.Type)
	}
	if res.Confidence != 1.0 {
		t.Fatalf("sparse text fallback carries confidence 1.0, got %v", res.Confidence)
	}
	if res.NullCount != 2 {
		t.Fatalf("expected 2 nulls, got %d", res.NullCount)
	}
}

func TestInferMissingValueFlagSeverity(t *testing.T) {
	res := inference.Infer("v", []string{"1", "2", "3", "4", "5", "6", "7", "8", "", ""})
	if len(res.Flags) != 1 {
		t.Fatalf("expected one quality flag, got %v", res.Flags)
	}
	if res.Flags[0].Severity != inference.SeverityHigh {
		t.Fatalf("20%% missing escalates to high, got %s", res.Flags[0].Severity)
	}

	res = inference.Infer("v", make20of1())
	if len(res.Flags) != 1 || res.Flags[0].Severity != inference.SeverityLow {
		t.Fatalf("5%% missing stays low, got %v", res.Flags)
	}
}

func make20of1() []string {
	out := make([]string, 20)
	for i := range out {
		out[i] = "1"
	}
	out[19] = ""
	return out
}

func TestInferDeterministic(t *testing.T) {
	values := []string{"10", "20", "20", "30", "x", "40"}
	first := inference.Infer("v", values)
	for i := 0; i < 5; i++ {
		if got := inference.Infer("v", values); !reflect.DeepEqual(first, got) {
			t.Fatalf("inference not deterministic: %+v vs %+v", first, got)
		}
	}
}

func TestParseNumericValueRejectsJunk(t *testing.T) {
	for _, v := range []string{"", "abc", "12abc", "1.2.3", "$", "%5"} {
		if _, ok := inference.ParseNumericValue(v); ok {
			t.Fatalf("%q should not parse as numeric", v)
		}
	}
}
