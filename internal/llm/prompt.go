package llm

import (
	"errors"
	"strings"

	"github.com/tablechat/tablechat-cli/internal/utils"
)

// promptBudgetTokens caps the dataset summary section so the prompt stays
// inside a small local model's context window.
const promptBudgetTokens = 3000

// BuildAnswerPrompt assembles the fallback prompt from the rendered profile
// summary and the user's question. Raw rows never enter the prompt.
func BuildAnswerPrompt(summaryMarkdown, question string) (string, int, error) {
	if strings.TrimSpace(question) == "" {
		return "", 0, errors.New("question is empty")
	}
	summary := utils.TruncateToTokenLimit(summaryMarkdown, promptBudgetTokens)

	var sb strings.Builder
	sb.WriteString("[INSTRUCTIONS]\n")
	sb.WriteString("You are a data analyst. Answer using only the dataset summary below.\n")
	sb.WriteString("If the summary does not contain the answer, say so plainly.\n\n")
	sb.WriteString("[DATASET SUMMARY]\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n[TASK]\n")
	sb.WriteString("Based on the dataset summary above, please answer: ")
	sb.WriteString(question)
	sb.WriteString("\n")

	prompt := sb.String()
	return prompt, utils.CountTokens(prompt), nil
}
