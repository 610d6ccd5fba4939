package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tablechat/tablechat-cli/internal/dataset"
	"github.com/tablechat/tablechat-cli/internal/engine"
	"github.com/tablechat/tablechat-cli/internal/pii"
)

func employeeTable() *dataset.Table {
	headers := []string{"name", "email", "salary"}
	rows := []map[string]string{
		{"name": "Alice Smith", "email": "alice@example.com", "salary": "50000"},
		{"name": "Bob Jones", "email": "bob@example.com", "salary": "55000"},
		{"name": "Carol White", "email": "carol@example.com", "salary": "65000"},
		{"name": "Dan Brown", "email": "dan@example.com", "salary": "70000"},
	}
	t := dataset.New(headers, rows)
	t.Source = dataset.Source{Name: "employees.csv", Checksum: "deadbeef"}
	return t
}

func TestProfileTableAttachesSecurity(t *testing.T) {
	eng := engine.New(engine.Config{})
	prof, err := eng.ProfileTable(context.Background(), employeeTable())
	require.NoError(t, err)

	var emailFlagged bool
	for _, d := range prof.Security.PIIColumns {
		if d.Column == "email" {
			emailFlagged = true
			require.True(t, d.Redact)
		}
	}
	require.True(t, emailFlagged, "email column must be detected as PII")
	require.True(t, prof.Security.HasRedaction)

	email := prof.Column("email")
	require.NotNil(t, email)
	for _, v := range email.SampleValues {
		require.NotContains(t, v, "@", "sample values must be redacted")
	}
}

func TestProfileTableRiskReflectsCompliancePosture(t *testing.T) {
	// A name-only dataset grades medium from the PII set alone, but HIPAA
	// treats names as identifiers and grades high; the posture keeps the
	// worse of the two.
	table := dataset.New([]string{"name"}, []map[string]string{
		{"name": "Alice Smith"},
		{"name": "Bob Jones"},
		{"name": "Carol White"},
		{"name": "Dan Brown"},
	})
	eng := engine.New(engine.Config{})
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)
	require.Equal(t, pii.RiskHigh, prof.Security.RiskLevel)
	require.NotEmpty(t, prof.Security.ComplianceFlags)
}

func TestProfileTableNilTable(t *testing.T) {
	eng := engine.New(engine.Config{})
	_, err := eng.ProfileTable(context.Background(), nil)
	require.Error(t, err)
}

func TestAnswerAverageSalary(t *testing.T) {
	eng := engine.New(engine.Config{})
	table := employeeTable()
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)

	ans, err := eng.Answer(context.Background(), "What is the average salary?", prof, table)
	require.NoError(t, err)
	require.False(t, ans.RequiresLLM)
	require.NotNil(t, ans.Result)
	require.Len(t, ans.Result.Rows, 1)
	require.Equal(t, "average_salary", ans.Result.Rows[0]["metric"])
	require.InDelta(t, 60000.0, ans.Result.Rows[0]["value"], 1e-9)
	require.NotEmpty(t, ans.Text)
}

func TestAnswerSecondCallHitsCache(t *testing.T) {
	eng := engine.New(engine.Config{})
	table := employeeTable()
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)

	first, err := eng.Answer(context.Background(), "What is the average salary?", prof, table)
	require.NoError(t, err)
	require.False(t, first.FromCache)

	// Normalization makes trailing punctuation and case irrelevant.
	second, err := eng.Answer(context.Background(), "what is the AVERAGE salary", prof, table)
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.Result.Rows, second.Result.Rows)
}

func TestAnswerUnresolvedRoutesToLLM(t *testing.T) {
	eng := engine.New(engine.Config{})
	table := employeeTable()
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)

	ans, err := eng.Answer(context.Background(), "tell me something interesting", prof, table)
	require.NoError(t, err)
	require.True(t, ans.RequiresLLM)
	require.Nil(t, ans.Result)
}

func TestAnswerProfileQuestion(t *testing.T) {
	eng := engine.New(engine.Config{})
	table := employeeTable()
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)

	ans, err := eng.Answer(context.Background(), "describe the dataset", prof, table)
	require.NoError(t, err)
	require.False(t, ans.RequiresLLM)
	require.Nil(t, ans.Result)
	require.True(t, strings.Contains(ans.Text, "employees.csv"))
}

func TestAnswerEmptyQuery(t *testing.T) {
	eng := engine.New(engine.Config{})
	prof, err := eng.ProfileTable(context.Background(), employeeTable())
	require.NoError(t, err)

	_, err = eng.Answer(context.Background(), "   ", prof, employeeTable())
	require.Error(t, err)

	_, err = eng.Answer(context.Background(), "average salary", nil, employeeTable())
	require.Error(t, err)
}

func TestAnswerCancelledContext(t *testing.T) {
	eng := engine.New(engine.Config{})
	table := employeeTable()
	prof, err := eng.ProfileTable(context.Background(), table)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Answer(ctx, "average salary", prof, table)
	require.ErrorIs(t, err, context.Canceled)
}
