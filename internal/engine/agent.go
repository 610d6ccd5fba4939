package engine

import (
	"context"
	"errors"

	"github.com/tablechat/tablechat-cli/internal/compliance"
	"github.com/tablechat/tablechat-cli/internal/dataset"
	"github.com/tablechat/tablechat-cli/internal/pii"
	"github.com/tablechat/tablechat-cli/internal/profile"
)

// Agent is the capability contract each pipeline stage implements. Stages
// are composed by explicit calls in the engine, never dispatched dynamically.
type Agent[In, Out any] interface {
	Name() string
	Validate(in In) error
	Execute(ctx context.Context, in In) (Out, error)
}

// profileAgent builds the statistical profile for a table.
type profileAgent struct {
	opts profile.Options
}

func (profileAgent) Name() string { return "profiling" }

func (profileAgent) Validate(t *dataset.Table) error {
	if t == nil {
		return errors.New("table is nil")
	}
	return nil
}

func (a profileAgent) Execute(ctx context.Context, t *dataset.Table) (*profile.DataProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return profile.Build(t, a.opts), nil
}

// securityAgent detects PII and derives the regulatory posture. Independent
// of the profiling agent, so the engine runs the two concurrently.
type securityAgent struct {
	detector *pii.Detector
}

func (securityAgent) Name() string { return "security" }

func (securityAgent) Validate(t *dataset.Table) error {
	if t == nil {
		return errors.New("table is nil")
	}
	return nil
}

func (a securityAgent) Execute(ctx context.Context, t *dataset.Table) (profile.SecurityProfile, error) {
	if err := ctx.Err(); err != nil {
		return profile.SecurityProfile{}, err
	}
	columns := make(map[string][]string, len(t.Headers))
	for _, h := range t.Headers {
		columns[h] = t.Column(h)
	}
	detections := a.detector.DetectColumns(columns)
	assessments := compliance.Assess(detections)

	// The posture grades by whichever signal is worse: the detected PII set
	// or the regulations it triggers (HIPAA grades name-only datasets high
	// while the PII set alone grades medium).
	sec := profile.SecurityProfile{
		RiskLevel:       pii.MaxRisk(pii.RiskLevelFor(detections), compliance.OverallRisk(assessments)),
		Recommendations: pii.RecommendationsFor(detections),
		ComplianceFlags: compliance.Flags(assessments),
	}
	for _, h := range t.Headers {
		if d, ok := detections[h]; ok {
			sec.PIIColumns = append(sec.PIIColumns, d)
		}
	}
	return sec, nil
}
