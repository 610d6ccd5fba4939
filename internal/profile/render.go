package profile

import (
	"fmt"
	"strings"

	"github.com/tablechat/tablechat-cli/internal/inference"
)

// RenderMarkdown renders a compact profile summary suitable for terminal
// output or fallback prompts.
func (p *DataProfile) RenderMarkdown() string {
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	if p.File.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", p.File.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\nColumns: %d\n", p.File.RowCount, p.File.ColumnCount)
	fmt.Fprintf(&b, "Quality: %.0f/100 (completeness %.0f, uniqueness %.0f)\n\n",
		p.Quality.Overall, p.Quality.Completeness, p.Quality.Uniqueness)

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Columns {
		fmt.Fprintf(&b, "- %s: %s (confidence %.2f, missing %.1f%%)", safeName(c.Name), c.Type, c.Confidence, c.NullPercentage)
		switch s := c.Stats.(type) {
		case inference.NumericStats:
			fmt.Fprintf(&b, " — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", s.Min, s.Max, s.Mean, s.Median, s.StdDev)
			if len(s.Outliers) > 0 {
				fmt.Fprintf(&b, "; %d outlier(s)", len(s.Outliers))
			}
		case inference.CategoricalStats:
			if len(s.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, tv := range s.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					if i == 5 {
						b.WriteString("…")
						break
					}
					fmt.Fprintf(&b, "%s(%d)", safeVal(tv.Value), tv.Count)
				}
				fmt.Fprintf(&b, "; unique=%d", s.UniqueCount)
			}
		case inference.DateTimeStats:
			fmt.Fprintf(&b, " — %s to %s, %s frequency",
				s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Frequency)
		case inference.TextStats:
			fmt.Fprintf(&b, " — avg length %.1f", s.AvgLength)
		}
		b.WriteString("\n")
	}

	if len(p.Security.PIIColumns) > 0 {
		b.WriteString("\n[SENSITIVE DATA]\n")
		fmt.Fprintf(&b, "Risk level: %s\n", p.Security.RiskLevel)
		for _, d := range p.Security.PIIColumns {
			fmt.Fprintf(&b, "- %s: %s (confidence %.2f, via %s)\n", d.Column, d.Type, d.Confidence, d.Method)
		}
		for _, f := range p.Security.ComplianceFlags {
			fmt.Fprintf(&b, "- %s: %s\n", f.Regulation, f.Status)
		}
	}

	if len(p.Insights.KeyFindings) > 0 {
		b.WriteString("\n[KEY FINDINGS]\n")
		for _, k := range p.Insights.KeyFindings {
			fmt.Fprintf(&b, "- %s\n", k)
		}
	}
	if len(p.Insights.SuggestedQueries) > 0 {
		b.WriteString("\n[SUGGESTED QUESTIONS]\n")
		for _, q := range p.Insights.SuggestedQueries {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
