package llm_test

import (
	"strings"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/llm"
)

func TestBuildAnswerPromptSections(t *testing.T) {
	prompt, tokens, err := llm.BuildAnswerPrompt("[DATASET PROFILE]\nemployees.csv, 4 rows", "What is the average salary?")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, section := range []string{"[INSTRUCTIONS]", "[DATASET SUMMARY]", "[TASK]"} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing %s:\n%s", section, prompt)
		}
	}
	if !strings.Contains(prompt, "What is the average salary?") {
		t.Fatal("question missing from prompt")
	}
	if tokens <= 0 {
		t.Fatalf("token estimate must be positive, got %d", tokens)
	}
}

func TestBuildAnswerPromptRejectsEmptyQuestion(t *testing.T) {
	if _, _, err := llm.BuildAnswerPrompt("summary", "   "); err == nil {
		t.Fatal("empty question must be rejected")
	}
}

func TestBuildAnswerPromptTruncatesSummary(t *testing.T) {
	huge := strings.Repeat("column statistics line\n", 4000)
	prompt, tokens, err := llm.BuildAnswerPrompt(huge, "describe")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(prompt) >= len(huge) {
		t.Fatal("oversized summary must be truncated")
	}
	if tokens > 3200 {
		t.Fatalf("prompt exceeds budget: %d tokens", tokens)
	}
}
