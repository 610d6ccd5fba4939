package inference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Acceptance thresholds for each type check, applied in priority order.
const (
	booleanThreshold     = 0.8
	numericThreshold     = 0.7
	datetimeThreshold    = 0.6
	categoricalThreshold = 0.5

	// Columns with fewer non-null values than this always resolve to text.
	minEvidence = 3

	// Missing-value fraction above which the quality flag escalates.
	missingHighFraction = 0.1
)

var booleanTokens = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true,
	"on": true, "off": true, "1": true, "0": true,
	"y": true, "n": true, "t": true, "f": true,
}

// Numeric value shapes, tried in order per value.
var (
	integerPattern    = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern    = regexp.MustCompile(`^[+-]?\d*\.\d+$`)
	scientificPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?[eE][+-]?\d+$`)
	percentPattern    = regexp.MustCompile(`^[+-]?\d+(\.\d+)?%$`)
	currencyPattern   = regexp.MustCompile(`^[$€£¥]\s?[+-]?[\d,]+(\.\d+)?$`)
)

// Date/time shapes. Epoch values are validated against a sane year range.
var datetimeLayouts = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`), ""}, // ISO datetime, multi-layout
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "1/2/2006"},
	{regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`), "2.1.2006"},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), "2-1-2006"},
	{regexp.MustCompile(`^\d{10}$`), "epoch-s"},
	{regexp.MustCompile(`^\d{13}$`), "epoch-ms"},
}

var isoDatetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Infer classifies a column's raw values into a semantic type with a
// confidence score and the matching statistics variant. It is a pure function
// of its input: repeated calls return identical results.
func Infer(column string, values []string) Result {
	res := Result{Column: column, Type: TypeText, Confidence: 1.0}

	nonNull := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			nonNull = append(nonNull, strings.TrimSpace(v))
		}
	}
	res.NullCount = len(values) - len(nonNull)
	if len(values) > 0 {
		res.NullPercent = float64(res.NullCount) / float64(len(values)) * 100
	}
	res.UniqueCount = countUnique(nonNull)
	res.Flags = missingFlags(res.NullCount, len(values))

	if len(nonNull) < minEvidence {
		res.Stats = computeTextStats(nonNull)
		return res
	}

	if conf, ok := checkBoolean(nonNull); ok {
		res.Type = TypeBoolean
		res.Confidence = conf
		res.Stats = computeCategoricalStats(normalizeBooleans(nonNull))
		return res
	}
	if conf, nums, ok := checkNumeric(nonNull); ok {
		res.Type = TypeNumeric
		res.Confidence = conf
		res.Stats = computeNumericStats(nums)
		return res
	}
	if conf, times, ok := checkDateTime(nonNull); ok {
		res.Type = TypeDateTime
		res.Confidence = conf
		res.Stats = computeDateTimeStats(times)
		return res
	}
	if conf, ok := checkCategorical(nonNull, res.UniqueCount); ok {
		res.Type = TypeCategorical
		res.Confidence = conf
		res.Stats = computeCategoricalStats(nonNull)
		return res
	}

	res.Stats = computeTextStats(nonNull)
	return res
}

func checkBoolean(values []string) (float64, bool) {
	matched := 0
	for _, v := range values {
		if booleanTokens[strings.ToLower(strings.TrimSpace(v))] {
			matched++
		}
	}
	conf := float64(matched) / float64(len(values))
	return conf, conf > booleanThreshold
}

// ParseNumericValue parses one raw cell as a number, accepting integer,
// decimal, scientific, percentage and currency shapes. Percentages normalize
// by /100; currency strips the symbol and thousands separators.
func ParseNumericValue(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	switch {
	case integerPattern.MatchString(v), decimalPattern.MatchString(v), scientificPattern.MatchString(v):
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case percentPattern.MatchString(v):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, false
		}
		return f / 100, true
	case currencyPattern.MatchString(v):
		stripped := strings.TrimLeft(v, "$€£¥ ")
		stripped = strings.ReplaceAll(stripped, ",", "")
		f, err := strconv.ParseFloat(stripped, 64)
		return f, err == nil
	}
	return 0, false
}

func checkNumeric(values []string) (float64, []float64, bool) {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ParseNumericValue(v); ok {
			nums = append(nums, f)
		}
	}
	conf := float64(len(nums)) / float64(len(values))
	return conf, nums, conf > numericThreshold
}

// ParseDateTimeValue parses one raw cell against the supported date/time
// shapes. Ten-digit values are epoch seconds, thirteen-digit values epoch
// milliseconds; epoch results outside [1970, 2100] are rejected.
func ParseDateTimeValue(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, dl := range datetimeLayouts {
		if !dl.re.MatchString(v) {
			continue
		}
		switch dl.layout {
		case "epoch-s", "epoch-ms":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return time.Time{}, false
			}
			var t time.Time
			if dl.layout == "epoch-s" {
				t = time.Unix(n, 0).UTC()
			} else {
				t = time.UnixMilli(n).UTC()
			}
			if y := t.Year(); y < 1970 || y > 2100 {
				return time.Time{}, false
			}
			return t, true
		case "":
			for _, layout := range isoDatetimeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, true
				}
			}
			return time.Time{}, false
		default:
			if t, err := time.Parse(dl.layout, v); err == nil {
				return t, true
			}
			return time.Time{}, false
		}
	}
	return time.Time{}, false
}

func checkDateTime(values []string) (float64, []time.Time, bool) {
	times := make([]time.Time, 0, len(values))
	for _, v := range values {
		if t, ok := ParseDateTimeValue(v); ok {
			times = append(times, t)
		}
	}
	conf := float64(len(times)) / float64(len(values))
	return conf, times, conf > datetimeThreshold
}

// checkCategorical stages confidence on the unique-value ratio, with a
// fallback on short repeated tokens.
func checkCategorical(values []string, unique int) (float64, bool) {
	ratio := float64(unique) / float64(len(values))
	var conf float64
	switch {
	case ratio < 0.1:
		conf = 0.9
	case ratio < 0.3:
		conf = 0.7
	case ratio < 0.5 && unique < 100:
		conf = 0.6
	case avgLength(values) < 20 && unique < 50:
		conf = 0.5
	default:
		conf = 0.2
	}
	return conf, conf > categoricalThreshold
}

func normalizeBooleans(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func countUnique(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func avgLength(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += len(v)
	}
	return float64(total) / float64(len(values))
}

func missingFlags(nullCount, total int) []QualityFlag {
	if nullCount == 0 || total == 0 {
		return nil
	}
	frac := float64(nullCount) / float64(total)
	sev := SeverityLow
	if frac > missingHighFraction {
		sev = SeverityHigh
	}
	return []QualityFlag{{
		Kind:        "missing_values",
		Severity:    sev,
		Count:       nullCount,
		Percentage:  frac * 100,
		Description: fmt.Sprintf("%d of %d values are missing", nullCount, total),
	}}
}
