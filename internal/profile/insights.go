package profile

import (
	"fmt"

	"github.com/tablechat/tablechat-cli/internal/inference"
)

// buildInsights derives key findings and suggested natural-language queries
// from the assembled column profiles.
func buildInsights(p *DataProfile) Insights {
	ins := Insights{}
	ins.KeyFindings = append(ins.KeyFindings,
		fmt.Sprintf("Dataset has %d rows and %d columns", p.File.RowCount, p.File.ColumnCount))

	numeric := p.ColumnsOfType(inference.TypeNumeric)
	categorical := p.ColumnsOfType(inference.TypeCategorical)
	datetime := p.ColumnsOfType(inference.TypeDateTime)

	if len(numeric) > 0 {
		ins.KeyFindings = append(ins.KeyFindings,
			fmt.Sprintf("%d numeric column(s): suitable for aggregation and trend analysis", len(numeric)))
	}
	if len(categorical) > 0 {
		ins.KeyFindings = append(ins.KeyFindings,
			fmt.Sprintf("%d categorical column(s): suitable for grouping and comparison", len(categorical)))
	}
	if len(datetime) > 0 {
		ins.KeyFindings = append(ins.KeyFindings,
			fmt.Sprintf("%d datetime column(s): time-series queries available", len(datetime)))
	}

	for _, c := range p.Columns {
		if stats, ok := c.Stats.(inference.NumericStats); ok && len(stats.Outliers) > 0 {
			ins.Anomalies = append(ins.Anomalies,
				fmt.Sprintf("%s has %d outlier value(s) beyond 1.5×IQR", c.Name, len(stats.Outliers)))
		}
		if stats, ok := c.Stats.(inference.DateTimeStats); ok {
			if stats.Trend == "increasing" || stats.Trend == "decreasing" {
				ins.Trends = append(ins.Trends,
					fmt.Sprintf("%s values are %s across the file", c.Name, stats.Trend))
			}
		}
		if c.NullPercentage > 10 {
			ins.Recommendations = append(ins.Recommendations,
				fmt.Sprintf("Consider imputing or dropping %s (%.1f%% missing)", c.Name, c.NullPercentage))
		}
	}

	ins.SuggestedQueries = suggestedQueries(numeric, categorical, datetime)
	return ins
}

// suggestedQueries seeds natural-language prompts from the first numeric,
// categorical and datetime columns found.
func suggestedQueries(numeric, categorical, datetime []string) []string {
	var out []string
	if len(numeric) > 0 {
		out = append(out, fmt.Sprintf("What is the average %s?", numeric[0]))
	}
	if len(categorical) > 0 {
		out = append(out, fmt.Sprintf("Break down the data by %s", categorical[0]))
	}
	if len(numeric) > 0 && len(categorical) > 0 {
		out = append(out, fmt.Sprintf("Which %s has the highest %s?", categorical[0], numeric[0]))
	}
	if len(numeric) > 0 && len(datetime) > 0 {
		out = append(out, fmt.Sprintf("Show the trend of %s over %s", numeric[0], datetime[0]))
	}
	return out
}
