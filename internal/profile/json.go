package profile

import (
	"encoding/json"
	"fmt"

	"github.com/tablechat/tablechat-cli/internal/inference"
)

// statsEnvelope wraps the statistics union with an explicit tag so profiles
// survive a JSON round trip.
type statsEnvelope struct {
	Kind        string                      `json:"kind,omitempty"`
	Numeric     *inference.NumericStats     `json:"numeric,omitempty"`
	Categorical *inference.CategoricalStats `json:"categorical,omitempty"`
	DateTime    *inference.DateTimeStats    `json:"datetime,omitempty"`
	Text        *inference.TextStats        `json:"text,omitempty"`
}

type columnProfileJSON struct {
	Name           string                  `json:"name"`
	Type           inference.ColumnType    `json:"type"`
	Nullable       bool                    `json:"nullable"`
	Unique         bool                    `json:"unique"`
	NullCount      int                     `json:"null_count"`
	NullPercentage float64                 `json:"null_percentage"`
	UniqueCount    int                     `json:"unique_count"`
	DuplicateCount int                     `json:"duplicate_count"`
	Confidence     float64                 `json:"confidence"`
	SampleValues   []string                `json:"sample_values"`
	Flags          []inference.QualityFlag `json:"flags,omitempty"`
	Stats          statsEnvelope           `json:"stats"`
}

// MarshalJSON encodes the statistics variant under an explicit kind tag.
func (c ColumnProfile) MarshalJSON() ([]byte, error) {
	out := columnProfileJSON{
		Name:           c.Name,
		Type:           c.Type,
		Nullable:       c.Nullable,
		Unique:         c.Unique,
		NullCount:      c.NullCount,
		NullPercentage: c.NullPercentage,
		UniqueCount:    c.UniqueCount,
		DuplicateCount: c.DuplicateCount,
		Confidence:     c.Confidence,
		SampleValues:   c.SampleValues,
		Flags:          c.Flags,
	}
	switch s := c.Stats.(type) {
	case inference.NumericStats:
		out.Stats = statsEnvelope{Kind: "numeric", Numeric: &s}
	case inference.CategoricalStats:
		out.Stats = statsEnvelope{Kind: "categorical", Categorical: &s}
	case inference.DateTimeStats:
		out.Stats = statsEnvelope{Kind: "datetime", DateTime: &s}
	case inference.TextStats:
		out.Stats = statsEnvelope{Kind: "text", Text: &s}
	case nil:
		// zero-column tables carry no stats
	default:
		return nil, fmt.Errorf("unknown stats variant %T", c.Stats)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged statistics envelope back into the union.
func (c *ColumnProfile) UnmarshalJSON(data []byte) error {
	var in columnProfileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Name = in.Name
	c.Type = in.Type
	c.Nullable = in.Nullable
	c.Unique = in.Unique
	c.NullCount = in.NullCount
	c.NullPercentage = in.NullPercentage
	c.UniqueCount = in.UniqueCount
	c.DuplicateCount = in.DuplicateCount
	c.Confidence = in.Confidence
	c.SampleValues = in.SampleValues
	c.Flags = in.Flags
	switch in.Stats.Kind {
	case "numeric":
		c.Stats = *in.Stats.Numeric
	case "categorical":
		c.Stats = *in.Stats.Categorical
	case "datetime":
		c.Stats = *in.Stats.DateTime
	case "text":
		c.Stats = *in.Stats.Text
	case "":
		c.Stats = nil
	default:
		return fmt.Errorf("unknown stats kind %q", in.Stats.Kind)
	}
	return nil
}
