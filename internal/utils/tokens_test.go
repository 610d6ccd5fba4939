package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/utils"
)

func TestCountTokens(t *testing.T) {
	if got := utils.CountTokens(""); got != 0 {
		t.Fatalf("empty text counts 0, got %d", got)
	}
	if got := utils.CountTokens("ab"); got != 1 {
		t.Fatalf("non-empty text counts at least 1, got %d", got)
	}
	if got := utils.CountTokens(strings.Repeat("a", 400)); got != 100 {
		t.Fatalf("400 chars estimate 100 tokens, got %d", got)
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	text := strings.Repeat("a", 100)
	if got := utils.TruncateToTokenLimit(text, 1000); got != text {
		t.Fatal("text within budget must pass through")
	}
	if got := utils.TruncateToTokenLimit(text, 10); len(got) != 40 {
		t.Fatalf("expected 40 chars, got %d", len(got))
	}
	if got := utils.TruncateToTokenLimit(text, 0); got != "" {
		t.Fatalf("zero budget truncates to empty, got %q", got)
	}
}

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := utils.SafeWriteFile(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != `{"a":1}` {
		t.Fatalf("content mismatch: %s", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file must not remain")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "\n") {
		t.Fatalf("expected indented output: %s", b)
	}
}
