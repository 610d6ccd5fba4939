package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablechat/tablechat-cli/internal/dataset"
	"github.com/tablechat/tablechat-cli/internal/engine"
	"github.com/tablechat/tablechat-cli/internal/pii"
	"github.com/tablechat/tablechat-cli/internal/profile"
	"github.com/tablechat/tablechat-cli/internal/store"
	"github.com/tablechat/tablechat-cli/internal/utils"
)

var (
	profDelimiter  string
	profSampleRows int
	profJSON       bool
	profSave       bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV/TSV: types, statistics, quality and sensitive data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(args[0], profDelimiter)
		if err != nil {
			return err
		}

		eng := newEngine()
		prof, err := eng.ProfileTable(context.Background(), table)
		if err != nil {
			return err
		}

		if profSave {
			st, err := store.NewPersistent(cfg.ProfilesDir)
			if err != nil {
				return err
			}
			if err := st.Put(prof); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			fmt.Printf("Saved profile %s (expires %s)\n", prof.ID, prof.ExpiresAt.Format(time.RFC3339))
		}

		if profJSON {
			b, err := utils.PrettyJSON(prof)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Println(prof.RenderMarkdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVar(&profDelimiter, "delimiter", "", "field delimiter: ','|';'|'tab' (default: sniffed)")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 0, "sample rows to keep in the profile (overrides config)")
	profileCmd.Flags().BoolVar(&profJSON, "json", false, "emit the full profile as JSON")
	profileCmd.Flags().BoolVar(&profSave, "save", false, "persist the profile to the profiles dir")
}

func loadTable(path, delimiter string) (*dataset.Table, error) {
	switch delimiter {
	case "":
		return dataset.LoadFile(path)
	case ",":
		return dataset.LoadCSVFile(path, ',')
	case ";":
		return dataset.LoadCSVFile(path, ';')
	case "\t", "tab":
		return dataset.LoadCSVFile(path, '\t')
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
}

func newEngine() *engine.Engine {
	opts := profile.DefaultOptions()
	if cfg != nil {
		if cfg.SampleRows > 0 {
			opts.SampleRows = cfg.SampleRows
		}
		if cfg.SampleValues > 0 {
			opts.SampleValues = cfg.SampleValues
		}
		if cfg.RetentionHours > 0 {
			opts.Retention = time.Duration(cfg.RetentionHours) * time.Hour
		}
	}
	if profSampleRows > 0 {
		opts.SampleRows = profSampleRows
	}

	detector := pii.NewDetector()
	if cfg != nil && cfg.PatternsFile != "" {
		if extra, err := pii.LoadPatternFile(cfg.PatternsFile); err == nil {
			detector = pii.NewDetector(extra...)
		} else {
			fmt.Printf("⚠ Warning: ignoring patterns file: %v\n", err)
		}
	}

	ec := engine.Config{Logger: logger, ProfileOptions: opts, Detector: detector}
	if cfg != nil {
		ec.RouteConfidence = cfg.RouteConfidence
	}
	return engine.New(ec)
}
