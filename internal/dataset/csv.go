package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader turns an on-disk file into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader based on filename and returns the parsed table.
func LoadFile(path string) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path)
		}
	}
	return nil, fmt.Errorf("%w: no loader for %s", ErrUnsupported, filepath.Base(path))
}

// ErrUnsupported indicates a file format no registered loader handles.
var ErrUnsupported = errors.New("unsupported table format")

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string) (*Table, error) {
	return LoadCSVFile(path, 0)
}

// LoadCSVFile parses a CSV/TSV file into a Table. If delimiter is 0 it is
// sniffed from the filename and the header line.
func LoadCSVFile(path string, delimiter rune) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if delimiter == 0 {
		delimiter = sniffDelimiter(path, data)
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return emptyTable(path, data, delimiter), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	t := New(headers, rows)
	t.Source = sourceFor(path, data, delimiter)
	return t, nil
}

func emptyTable(path string, data []byte, delim rune) *Table {
	t := New(nil, nil)
	t.Source = sourceFor(path, data, delim)
	return t
}

func sourceFor(path string, data []byte, delim rune) Source {
	sum := sha256.Sum256(data)
	return Source{
		Name:      filepath.Base(path),
		SizeBytes: int64(len(data)),
		Encoding:  "utf-8",
		Delimiter: string(delim),
		Checksum:  hex.EncodeToString(sum[:]),
	}
}

// sniffDelimiter picks a delimiter from the filename extension, falling back
// to counting candidates in the first line.
func sniffDelimiter(path string, data []byte) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func init() {
	Register(csvLoader{})
}
