package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tablechat/tablechat-cli/internal/inference"
)

const (
	// minConfidence is the floor below which a query routes to the LLM.
	minConfidence = 0.5
	// tieMargin: top candidates closer than this are treated as an
	// unresolved tie and routed to the LLM rather than silently picked.
	tieMargin = 0.02
	// resolvedBonus rewards a winning pattern whose measure grounded to a
	// real schema column.
	resolvedBonus = 0.05
	maxConfidence = 0.99
)

// intentPattern maps a regular expression to a query type. Base confidences
// are staggered so that co-occurring keywords (ranking questions almost
// always contain aggregation words) rank deterministically.
type intentPattern struct {
	qtype  QueryType
	re     *regexp.Regexp
	base   float64
	reason string
}

var patterns = []intentPattern{
	{TypeTrend, regexp.MustCompile(`(?i)\b(trend|over time|growth|change (?:of|in)|per (?:day|week|month|year))\b`), 0.90, "time-series keyword"},
	{TypeRanking, regexp.MustCompile(`(?i)\b(top|bottom|highest|lowest|best|worst|rank(?:ing|ed)?)\b`), 0.88, "ranking keyword"},
	{TypeAggregation, regexp.MustCompile(`(?i)\b(average|avg|mean|sum|total|count|minimum|maximum|min|max|how many)\b`), 0.85, "aggregation keyword"},
	{TypeComparison, regexp.MustCompile(`(?i)\b(compare|versus|vs\.?|difference between|break\s?down)\b`), 0.82, "comparison keyword"},
	{TypeDistribution, regexp.MustCompile(`(?i)\b(distribution|histogram|spread|how often)\b`), 0.80, "distribution keyword"},
	{TypeProfile, regexp.MustCompile(`(?i)\b(describe|summar\w*|overview|profile|schema|what columns|data quality)\b`), 0.78, "dataset overview keyword"},
	{TypeRelationship, regexp.MustCompile(`(?i)\b(correlat\w*|relationship|related to|depends on)\b`), 0.75, "relationship keyword"},
	{TypeFilter, regexp.MustCompile(`(?i)\b(where|only|filter|greater than|less than|more than|at least|at most|equal to)\b`), 0.70, "filter keyword"},
}

var aggFuncWords = []struct {
	re *regexp.Regexp
	fn string
}{
	{regexp.MustCompile(`(?i)\b(average|avg|mean)\b`), "avg"},
	{regexp.MustCompile(`(?i)\b(sum|total)\b`), "sum"},
	{regexp.MustCompile(`(?i)\b(count|how many)\b`), "count"},
	{regexp.MustCompile(`(?i)\b(minimum|min|lowest|bottom|worst)\b`), "min"},
	{regexp.MustCompile(`(?i)\b(maximum|max|highest|top|best)\b`), "max"},
}

var (
	limitPattern     = regexp.MustCompile(`(?i)\b(?:top|bottom|first|limit)\s+(\d+)\b`)
	byPattern        = regexp.MustCompile(`(?i)\bby\s+([a-zA-Z_][\w]*)`)
	filterPattern    = regexp.MustCompile(`(?i)\b([a-zA-Z_][\w]*)\s+(?:is\s+)?(=|==|>=|<=|>|<|equals?|greater than|at least|less than|at most|more than|not|contains)\s+([\w.'-]+)`)
	ascendingPattern = regexp.MustCompile(`(?i)\b(lowest|bottom|worst|ascending)\b`)
	tokenPattern     = regexp.MustCompile(`[a-z0-9]+`)
)

var operatorNames = map[string]string{
	"=": "eq", "==": "eq", "equal": "eq", "equals": "eq",
	">": "gt", "greater than": "gt", "more than": "gt",
	">=": "gte", "at least": "gte",
	"<": "lt", "less than": "lt",
	"<=": "lte", "at most": "lte",
	"not": "neq", "contains": "contains",
}

// Classify parses a natural-language query against the dataset schema into a
// typed intent with ranked alternatives.
func Classify(query string, schema []Column) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return unknownResult(nil)
	}

	type candidate struct {
		p    intentPattern
		conf float64
	}
	var cands []candidate
	for _, p := range patterns {
		if p.re.MatchString(query) {
			cands = append(cands, candidate{p: p, conf: p.base})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].conf > cands[j].conf })

	var alts []Alternative
	if len(cands) > 1 {
		for _, c := range cands[1:] {
			alts = append(alts, Alternative{Type: c.p.qtype, Confidence: c.conf, Reason: c.p.reason})
		}
	}
	if len(cands) == 0 || cands[0].conf < minConfidence {
		return unknownResult(alts)
	}
	if len(cands) > 1 && cands[0].conf-cands[1].conf < tieMargin {
		// Deliberately unresolved: close ties go to the fallback path.
		return unknownResult(alts)
	}

	best := cands[0]
	in := Intent{Type: best.p.qtype, Confidence: best.conf}
	extractEntities(&in, query, schema)

	switch {
	case len(in.Measures) > 0:
		in.Confidence += resolvedBonus
	case needsMeasure(in.Type):
		in.Confidence -= 0.15
	}
	if in.Confidence > maxConfidence {
		in.Confidence = maxConfidence
	}
	if in.Confidence < minConfidence {
		return unknownResult(append([]Alternative{{Type: in.Type, Confidence: in.Confidence, Reason: "no column reference resolved"}}, alts...))
	}

	in.CanUseCache = true
	return Result{Intent: in, Alternatives: alts}
}

func needsMeasure(t QueryType) bool {
	switch t {
	case TypeAggregation, TypeTrend, TypeRanking:
		return true
	}
	return false
}

func unknownResult(alts []Alternative) Result {
	return Result{
		Intent:       Intent{Type: TypeUnknown, RequiresLLM: true},
		Alternatives: alts,
	}
}

// extractEntities grounds query tokens against schema column names using
// case-insensitive substring matching, and pulls out filters and limits.
func extractEntities(in *Intent, query string, schema []Column) {
	lower := strings.ToLower(query)

	for _, fn := range aggFuncWords {
		if fn.re.MatchString(query) {
			in.AggFunc = fn.fn
			break
		}
	}

	// Explicit group-by references take priority as dimensions.
	byTargets := map[string]bool{}
	for _, m := range byPattern.FindAllStringSubmatch(query, -1) {
		byTargets[strings.ToLower(m[1])] = true
	}

	for _, col := range schema {
		if !mentions(lower, strings.ToLower(col.Name)) && !byTargets[strings.ToLower(col.Name)] {
			continue
		}
		switch col.Type {
		case inference.TypeNumeric:
			in.Measures = append(in.Measures, col.Name)
			in.Entities = append(in.Entities, Entity{Kind: EntityMeasure, Raw: col.Name, Column: col.Name, Confidence: 0.9})
		case inference.TypeDateTime:
			in.TimeColumn = col.Name
			in.Entities = append(in.Entities, Entity{Kind: EntityTime, Raw: col.Name, Column: col.Name, Confidence: 0.9})
		default:
			in.Dimensions = append(in.Dimensions, col.Name)
			in.Entities = append(in.Entities, Entity{Kind: EntityDimension, Raw: col.Name, Column: col.Name, Confidence: 0.8})
		}
	}

	if m := limitPattern.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			in.Limit = n
			in.Entities = append(in.Entities, Entity{Kind: EntityLimit, Raw: m[0], Confidence: 0.95})
		}
	}

	for _, m := range filterPattern.FindAllStringSubmatch(query, -1) {
		col := resolveColumn(m[1], schema)
		if col == "" {
			continue
		}
		op, ok := operatorNames[strings.ToLower(strings.TrimSpace(m[2]))]
		if !ok {
			continue
		}
		in.Filters = append(in.Filters, FilterSpec{Column: col, Operator: op, Value: m[3]})
		in.Entities = append(in.Entities, Entity{Kind: EntityFilter, Raw: m[0], Column: col, Operator: op, Confidence: 0.8})
	}

	in.SortDesc = !ascendingPattern.MatchString(query)

	// Trend queries aggregate along the time column by default.
	if in.Type == TypeTrend && in.AggFunc == "" {
		in.AggFunc = "avg"
	}
	if in.AggFunc == "" && needsMeasure(in.Type) {
		in.AggFunc = "sum"
	}
}

// mentions grounds a column against the query in either direction: the full
// column name appearing as a word in the query ("average salary" / column
// "salary"), or a query word matching one of the column's name tokens
// (query "salary" / column "salary_usd"). Plain substring matching is too
// loose here: "age" would ground inside "average".
func mentions(query, column string) bool {
	if column == "" {
		return false
	}
	words := tokenPattern.FindAllString(query, -1)
	colTokens := tokenPattern.FindAllString(column, -1)
	if containsSequence(words, colTokens) {
		return true
	}
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		for _, t := range colTokens {
			if tokenMatches(w, t) {
				return true
			}
		}
	}
	return false
}

// tokenMatches compares a query word to a column name token, tolerating a
// trailing plural s ("departments" grounds the column "department").
func tokenMatches(w, t string) bool {
	if w == t {
		return true
	}
	if len(t) >= 3 && w == t+"s" {
		return true
	}
	if len(w) >= 3 && t == w+"s" {
		return true
	}
	return false
}

// containsSequence reports whether needle appears as a contiguous run in
// haystack.
func containsSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func resolveColumn(token string, schema []Column) string {
	tok := strings.ToLower(strings.TrimSpace(token))
	for _, c := range schema {
		if strings.ToLower(c.Name) == tok {
			return c.Name
		}
	}
	for _, c := range schema {
		lc := strings.ToLower(c.Name)
		if strings.Contains(lc, tok) || strings.Contains(tok, lc) {
			return c.Name
		}
	}
	return ""
}
