package mmlu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RequiredColumns are the header fields every dataset file must declare.
var RequiredColumns = []string{"input", "A", "B", "C", "D", "target"}

// ErrMissingColumns marks a dataset file whose header lacks required fields.
// It is fatal for that one file only; callers score the dataset as all-zero
// and continue with the next.
var ErrMissingColumns = errors.New("mmlu: dataset missing required columns")

// Row is one multiple-choice question read from a dataset file.
type Row struct {
	ID       int // 1-based position within the file
	Question string
	Options  map[string]string
	Target   string
}

// LoadDataset reads a CSV dataset and returns its valid rows plus the number
// of rows skipped for missing fields. A missing or malformed header returns
// ErrMissingColumns.
func LoadDataset(path string) ([]Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("mmlu: open dataset %q: %w", path, err)
	}
	defer f.Close()

	return readRows(f)
}

func readRows(r io.Reader) ([]Row, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, 0, fmt.Errorf("mmlu: read dataset header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var out []Row
	skipped := 0
	for i := 0; ; i++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, skipped, fmt.Errorf("mmlu: read dataset row %d: %w", i+1, err)
		}

		row, ok := rowFromRecord(i+1, record, idx)
		if !ok {
			skipped++
			continue
		}
		out = append(out, row)
	}
	return out, skipped, nil
}

func rowFromRecord(id int, record []string, idx map[string]int) (Row, bool) {
	field := func(name string) (string, bool) {
		i := idx[name]
		if i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	question, ok := field("input")
	if !ok {
		return Row{}, false
	}
	target, ok := field("target")
	if !ok {
		return Row{}, false
	}

	options := make(map[string]string, len(ChoiceLabels))
	for _, label := range ChoiceLabels {
		v, ok := field(label)
		if !ok {
			return Row{}, false
		}
		options[label] = v
	}

	return Row{
		ID:       id,
		Question: question,
		Options:  options,
		Target:   strings.TrimSpace(target),
	}, true
}

// DatasetName derives a dataset's display name from its file path.
func DatasetName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ListDatasets returns the CSV files under dir in lexical order.
func ListDatasets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("mmlu: read dataset dir %q: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
