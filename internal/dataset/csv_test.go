package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/dataset"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadFileCSV(t *testing.T) {
	p := writeFile(t, "orders.csv",
		"order_id,region,amount\n"+
			"1001,north,19.99\n"+
			"1002,south,42.50\n")
	tab, err := dataset.LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.RowCount() != 2 || tab.ColumnCount() != 3 {
		t.Fatalf("expected 2x3 table, got %dx%d", tab.RowCount(), tab.ColumnCount())
	}
	if got := tab.Column("region"); len(got) != 2 || got[0] != "north" {
		t.Fatalf("unexpected region column: %v", got)
	}
	if tab.Source.Checksum == "" || tab.Source.Name != "orders.csv" {
		t.Fatalf("source metadata not populated: %+v", tab.Source)
	}
}

func TestLoadFileSniffsSemicolon(t *testing.T) {
	p := writeFile(t, "semi.csv", "a;b\n1;2\n")
	tab, err := dataset.LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tab.HasColumn("a") || !tab.HasColumn("b") {
		t.Fatalf("semicolon delimiter not sniffed, headers: %v", tab.Headers)
	}
}

func TestLoadFileTSVByExtension(t *testing.T) {
	p := writeFile(t, "data.tsv", "x\ty\n1\t2\n")
	tab, err := dataset.LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tab.Source.Delimiter != "\t" {
		t.Fatalf("expected tab delimiter, got %q", tab.Source.Delimiter)
	}
}

func TestLoadFileEmpty(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	tab, err := dataset.LoadFile(p)
	if err != nil {
		t.Fatalf("empty file should not error: %v", err)
	}
	if tab.RowCount() != 0 || tab.ColumnCount() != 0 {
		t.Fatalf("expected empty table, got %dx%d", tab.RowCount(), tab.ColumnCount())
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	p := writeFile(t, "doc.pdf", "%PDF")
	_, err := dataset.LoadFile(p)
	if !errors.Is(err, dataset.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestLoadFileRaggedRow(t *testing.T) {
	p := writeFile(t, "ragged.csv", "a,b,c\n1,2\n")
	tab, err := dataset.LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tab.Rows[0]["c"]; got != "" {
		t.Fatalf("missing trailing field should be empty, got %q", got)
	}
}

func TestSampleRows(t *testing.T) {
	tab := dataset.New([]string{"a"}, []map[string]string{{"a": "1"}, {"a": "2"}, {"a": "3"}})
	if got := tab.SampleRows(2); len(got) != 2 {
		t.Fatalf("expected 2 sample rows, got %d", len(got))
	}
	if got := tab.SampleRows(10); len(got) != 3 {
		t.Fatalf("sample should cap at row count, got %d", len(got))
	}
}
