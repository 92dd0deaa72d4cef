// Package report writes and reads evaluation result artifacts. Each dataset
// gets its own self-describing JSON document, so a run interrupted midway
// leaves valid standalone files for the datasets already finished.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stellarlinkco/mmlu-eval/internal/mmlu"
)

const OverallFileName = "overall_results.json"

// DatasetFileName returns the artifact file name for a dataset.
func DatasetFileName(dataset string) string {
	return dataset + "_results.json"
}

// WriteDatasetResult saves one dataset's result under dir.
func WriteDatasetResult(dir string, dataset string, res *mmlu.DatasetResult) (string, error) {
	if res == nil {
		return "", errors.New("report: nil dataset result")
	}
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return "", errors.New("report: empty dataset name")
	}
	return writeJSON(filepath.Join(dir, DatasetFileName(dataset)), res)
}

// WriteOverallResult saves the cross-dataset aggregate under dir.
func WriteOverallResult(dir string, res *mmlu.OverallResult) (string, error) {
	if res == nil {
		return "", errors.New("report: nil overall result")
	}
	return writeJSON(filepath.Join(dir, OverallFileName), res)
}

// ReadDatasetResult loads a previously written dataset artifact.
func ReadDatasetResult(path string) (*mmlu.DatasetResult, error) {
	var out mmlu.DatasetResult
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadOverallResult loads a previously written overall artifact.
func ReadOverallResult(path string) (*mmlu.OverallResult, error) {
	var out mmlu.OverallResult
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the result artifact file names present in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("report: read dir %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func writeJSON(path string, v any) (string, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("report: create output dir: %w", err)
		}
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal %q: %w", path, err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("report: write %q: %w", path, err)
	}
	return path, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("report: read %q: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("report: parse %q: %w", path, err)
	}
	return nil
}
