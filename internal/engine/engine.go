// Package engine sequences the pipeline stages: profiling, security and
// compliance on upload, classification through execution on query. It owns
// the routing decision between the rule-based path and the LLM fallback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tablechat/tablechat-cli/internal/dataset"
	"github.com/tablechat/tablechat-cli/internal/exec"
	"github.com/tablechat/tablechat-cli/internal/intent"
	"github.com/tablechat/tablechat-cli/internal/logging"
	"github.com/tablechat/tablechat-cli/internal/pii"
	"github.com/tablechat/tablechat-cli/internal/plan"
	"github.com/tablechat/tablechat-cli/internal/profile"
)

// defaultRouteConfidence is the floor below which answers route to the LLM.
const defaultRouteConfidence = 0.5

// Config customizes an Engine. Zero values fall back to defaults.
type Config struct {
	Logger          *zap.Logger
	ProfileOptions  profile.Options
	Detector        *pii.Detector
	RouteConfidence float64
}

// Engine is the orchestrator. Safe for concurrent use.
type Engine struct {
	log             *zap.Logger
	profiler        profileAgent
	security        securityAgent
	routeConfidence float64

	mu    sync.Mutex
	cache map[string]*Answer
}

// Answer is the outcome of one question. When RequiresLLM is set the other
// result fields are empty and the caller owns the fallback call.
type Answer struct {
	Query       string                `json:"query"`
	Intent      intent.Intent         `json:"intent"`
	Result      *exec.ExecutionResult `json:"result,omitempty"`
	Text        string                `json:"text,omitempty"`
	RequiresLLM bool                  `json:"requires_llm"`
	FromCache   bool                  `json:"from_cache"`
}

// New builds an engine from config.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	opts := cfg.ProfileOptions
	if opts.SampleRows == 0 && opts.SampleValues == 0 && opts.Retention == 0 {
		opts = profile.DefaultOptions()
	}
	det := cfg.Detector
	if det == nil {
		det = pii.NewDetector()
	}
	rc := cfg.RouteConfidence
	if rc <= 0 {
		rc = defaultRouteConfidence
	}
	return &Engine{
		log:             log,
		profiler:        profileAgent{opts: opts},
		security:        securityAgent{detector: det},
		routeConfidence: rc,
		cache:           make(map[string]*Answer),
	}
}

// ProfileTable runs the profiling and security agents concurrently over the
// same immutable table, then joins and attaches the security posture.
func (e *Engine) ProfileTable(ctx context.Context, table *dataset.Table) (*profile.DataProfile, error) {
	if err := e.profiler.Validate(table); err != nil {
		return nil, fmt.Errorf("%s: %w", e.profiler.Name(), err)
	}
	if err := e.security.Validate(table); err != nil {
		return nil, fmt.Errorf("%s: %w", e.security.Name(), err)
	}

	var (
		wg      sync.WaitGroup
		prof    *profile.DataProfile
		profErr error
		sec     profile.SecurityProfile
		secErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		prof, profErr = e.profiler.Execute(ctx, table)
	}()
	go func() {
		defer wg.Done()
		sec, secErr = e.security.Execute(ctx, table)
	}()
	wg.Wait()

	if profErr != nil {
		return nil, fmt.Errorf("%s: %w", e.profiler.Name(), profErr)
	}
	if secErr != nil {
		return nil, fmt.Errorf("%s: %w", e.security.Name(), secErr)
	}

	prof.Security = sec
	redactSamples(prof)

	e.log.Info("profiled table",
		zap.String("profile_id", prof.ID),
		zap.Int("rows", prof.File.RowCount),
		zap.Int("columns", prof.File.ColumnCount),
		zap.Int("pii_columns", len(sec.PIIColumns)),
		zap.String("risk", string(sec.RiskLevel)))
	return prof, nil
}

// Answer classifies the question, builds and runs a plan, and falls back to
// the LLM route on unsupported intents, low confidence or execution failure.
func (e *Engine) Answer(ctx context.Context, query string, prof *profile.DataProfile, table *dataset.Table) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}
	if prof == nil {
		return nil, errors.New("profile is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema := schemaFrom(prof)
	res := intent.Classify(query, schema)
	ans := &Answer{Query: query, Intent: res.Intent}

	log := e.log.With(zap.String("query", logging.SanitizeQuery(query)),
		zap.String("intent", string(res.Intent.Type)),
		zap.Float64("confidence", res.Intent.Confidence))

	if res.Intent.RequiresLLM || res.Intent.Type == intent.TypeUnknown {
		log.Info("routing to llm", zap.String("reason", "unresolved intent"))
		ans.RequiresLLM = true
		return ans, nil
	}
	if res.Intent.Confidence < e.routeConfidence {
		log.Info("routing to llm", zap.String("reason", "low confidence"))
		ans.RequiresLLM = true
		return ans, nil
	}

	if res.Intent.Type == intent.TypeProfile {
		ans.Text = profileAnswer(prof)
		log.Info("answered from profile insights")
		return ans, nil
	}

	key := cacheKey(query, prof.File.Checksum)
	if res.Intent.CanUseCache {
		if cached := e.cachedAnswer(key); cached != nil {
			log.Info("answered from cache")
			return cached, nil
		}
	}

	if table == nil {
		return nil, errors.New("table is nil")
	}
	p, err := plan.Build(res.Intent, schema)
	if err != nil {
		log.Info("routing to llm", zap.String("reason", logging.SanitizeError(err)))
		ans.RequiresLLM = true
		return ans, nil
	}
	result, err := exec.Execute(p, table)
	if err != nil {
		// Cycles and malformed plans are fatal to this query only.
		log.Warn("execution failed, routing to llm", zap.String("error", logging.SanitizeError(err)))
		ans.RequiresLLM = true
		return ans, nil
	}

	ans.Result = result
	ans.Text = strings.Join(result.Insights.KeyFindings, "\n")
	if res.Intent.CanUseCache {
		e.storeAnswer(key, ans)
	}
	log.Info("answered from plan",
		zap.Int("steps", result.Meta.StepsExecuted),
		zap.Int("rows", len(result.Rows)))
	return ans, nil
}

func (e *Engine) cachedAnswer(key string) *Answer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.cache[key]; ok {
		dup := *a
		dup.FromCache = true
		return &dup
	}
	return nil
}

func (e *Engine) storeAnswer(key string, a *Answer) {
	e.mu.Lock()
	e.cache[key] = a
	e.mu.Unlock()
}

// cacheKey fingerprints a question against one dataset version.
func cacheKey(query, checksum string) string {
	return normalizeQuery(query) + "|" + checksum
}

func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.TrimRight(q, "?!. ")
	return strings.Join(strings.Fields(q), " ")
}

func schemaFrom(prof *profile.DataProfile) []intent.Column {
	schema := make([]intent.Column, len(prof.Columns))
	for i, c := range prof.Columns {
		schema[i] = intent.Column{Name: c.Name, Type: c.Type}
	}
	return schema
}

// profileAnswer renders a profile-type question from precomputed insights.
func profileAnswer(prof *profile.DataProfile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dataset %s: %d rows, %d columns. Quality score %.0f/100.\n",
		prof.File.Name, prof.File.RowCount, prof.File.ColumnCount, prof.Quality.Overall))
	for _, f := range prof.Insights.KeyFindings {
		sb.WriteString("- " + f + "\n")
	}
	for _, r := range prof.Insights.Recommendations {
		sb.WriteString("- " + r + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// redactSamples replaces sample values of redaction-flagged columns and
// marks the profile accordingly.
func redactSamples(prof *profile.DataProfile) {
	redact := map[string]bool{}
	for _, d := range prof.Security.PIIColumns {
		if d.Redact {
			redact[d.Column] = true
		}
	}
	if len(redact) == 0 {
		return
	}
	prof.Security.HasRedaction = true
	for i := range prof.Columns {
		if !redact[prof.Columns[i].Name] {
			continue
		}
		for j, v := range prof.Columns[i].SampleValues {
			prof.Columns[i].SampleValues[j] = pii.RedactValue(v)
		}
	}
	for _, row := range prof.SampleRows {
		for col := range row {
			if redact[col] {
				row[col] = pii.RedactValue(row[col])
			}
		}
	}
}
