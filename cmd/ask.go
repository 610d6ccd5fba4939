package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablechat/tablechat-cli/internal/exec"
	"github.com/tablechat/tablechat-cli/internal/llm"
	"github.com/tablechat/tablechat-cli/internal/utils"
)

var (
	askDelimiter  string
	askModel      string
	askNoFallback bool
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Answer a natural-language question about a CSV/TSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, question := args[0], args[1]
		table, err := loadTable(path, askDelimiter)
		if err != nil {
			return err
		}

		eng := newEngine()
		ctx := context.Background()
		prof, err := eng.ProfileTable(ctx, table)
		if err != nil {
			return err
		}
		ans, err := eng.Answer(ctx, question, prof, table)
		if err != nil {
			return err
		}

		if ans.RequiresLLM {
			if askNoFallback {
				fmt.Println("This question needs the model fallback (disabled with --no-fallback).")
				return nil
			}
			text, err := fallbackAnswer(ctx, prof.RenderMarkdown(), question)
			if err != nil {
				return fmt.Errorf("model fallback: %w", err)
			}
			ans.Text = text
		}

		if askJSON {
			b, err := utils.PrettyJSON(ans)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		if ans.Text != "" {
			fmt.Println(ans.Text)
		}
		if ans.Result != nil {
			printRows(ans.Result)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDelimiter, "delimiter", "", "field delimiter: ','|';'|'tab' (default: sniffed)")
	askCmd.Flags().StringVar(&askModel, "model", "", "fallback model name (overrides config)")
	askCmd.Flags().BoolVar(&askNoFallback, "no-fallback", false, "never call the local model")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "emit the full answer as JSON")
}

func fallbackAnswer(ctx context.Context, summary, question string) (string, error) {
	prompt, tokens, err := llm.BuildAnswerPrompt(summary, question)
	if err != nil {
		return "", err
	}
	logger.Debug(fmt.Sprintf("fallback prompt: %d tokens", tokens))

	model := cfg.OllamaModel
	if askModel != "" {
		model = askModel
	}
	client := llm.NewOllamaClient(
		cfg.OllamaHost,
		time.Duration(cfg.OllamaTimeoutSec)*time.Second,
		cfg.RetryMaxAttempts,
		time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond,
	)
	resp, err := client.Generate(ctx, llm.GenerateRequest{
		Model:       model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func printRows(res *exec.ExecutionResult) {
	if len(res.Rows) == 0 {
		return
	}
	// stable column order from the first row
	var cols []string
	for k := range res.Rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	fmt.Println(strings.Join(cols, " | "))
	for _, row := range res.Rows {
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = fmt.Sprintf("%v", row[c])
		}
		fmt.Println(strings.Join(parts, " | "))
	}
	fmt.Printf("(%d rows, %d steps, %s)\n", len(res.Rows), res.Meta.StepsExecuted, res.Meta.Duration)
}
