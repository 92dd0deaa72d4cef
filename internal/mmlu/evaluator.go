package mmlu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/stellarlinkco/mmlu-eval/internal/llm"
)

const (
	defaultMaxTokens = 512
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 100 * time.Millisecond
)

// Evaluator drives one dataset through the format -> call -> extract pipeline,
// one row at a time. It owns all mutable accumulation for a run; there is no
// parallelism and no shared state beyond the result it builds.
type Evaluator struct {
	Provider llm.Provider

	// SampleSize, when > 0 and smaller than the dataset, selects a uniform
	// random subset without replacement before evaluation.
	SampleSize int
	// Seed fixes the sampling RNG for reproducible subsets (0 = time-derived).
	Seed int64

	MaxTokens   int
	Temperature float64
	// Timeout bounds each provider call. Delay is slept after every call,
	// strictly to stay under external rate limits; 0 means the 100ms
	// default and a negative value disables the pause. Both are policy
	// knobs, not correctness invariants.
	Timeout time.Duration
	Delay   time.Duration

	// Progress receives one line per evaluated row (running accuracy so far).
	Progress io.Writer
}

// EvaluateFile loads a CSV dataset and evaluates it. A schema failure is fatal
// for this file only: the returned result is non-nil and all-zero alongside
// the error, so callers can record it and continue with the next dataset.
func (e *Evaluator) EvaluateFile(ctx context.Context, path string) (*DatasetResult, error) {
	if e == nil {
		return nil, errors.New("mmlu: nil evaluator")
	}

	e.logf("Evaluating: %s\n", path)

	rows, skipped, err := LoadDataset(path)
	if err != nil {
		return NewDatasetResult(), err
	}
	if skipped > 0 {
		e.logf("Skipped %d row(s) with missing fields\n", skipped)
	}

	return e.Evaluate(ctx, rows)
}

// Evaluate runs the pipeline over rows in order (after optional sampling) and
// returns the accumulated result. A provider failure on a row is never fatal:
// the row is scored incorrect with an absent raw response. The only error
// returned is context cancellation, and even then the partial result is valid
// over the rows actually evaluated.
func (e *Evaluator) Evaluate(ctx context.Context, rows []Row) (*DatasetResult, error) {
	if e == nil {
		return nil, errors.New("mmlu: nil evaluator")
	}
	if ctx == nil {
		return nil, errors.New("mmlu: nil context")
	}
	if e.Provider == nil {
		return nil, errors.New("mmlu: nil provider")
	}

	rows = e.sample(rows)
	out := NewDatasetResult()

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		raw, callErr := e.ask(ctx, row)
		if callErr != nil {
			e.logf("Call failed on question %d: %v\n", row.ID, callErr)
		}

		predicted, _ := ExtractAnswer(raw)
		out.append(RowResult{
			QuestionID:      row.ID,
			Question:        row.Question,
			Options:         row.Options,
			CorrectAnswer:   row.Target,
			PredictedAnswer: predicted,
			RawResponse:     raw,
			IsCorrect:       predicted != "" && predicted == row.Target,
		})

		e.logf("Progress: %d/%d - correct: %d/%d (%.1f%%)\n",
			i+1, len(rows), out.Correct, out.Total, out.Accuracy*100)

		if err := sleepWithContext(ctx, e.delay()); err != nil {
			return out, err
		}
	}

	return out, nil
}

// ask performs the single provider call for one row. No retry: any failure
// yields an absent response, which scores as incorrect.
func (e *Evaluator) ask(ctx context.Context, row Row) (string, error) {
	maxTokens := e.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: FormatQuestion(row.Question, row.Options)}},
		MaxTokens:   maxTokens,
		Temperature: e.Temperature,
	}

	resp, err := e.Provider.Complete(callCtx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("mmlu: nil provider response")
	}
	return strings.TrimSpace(resp.Text), nil
}

func (e *Evaluator) sample(rows []Row) []Row {
	n := e.SampleSize
	if n <= 0 || n >= len(rows) {
		return rows
	}

	seed := e.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	out := make([]Row, 0, n)
	for _, idx := range rng.Perm(len(rows))[:n] {
		out = append(out, rows[idx])
	}
	return out
}

func (e *Evaluator) delay() time.Duration {
	if e.Delay < 0 {
		return 0
	}
	if e.Delay == 0 {
		return defaultDelay
	}
	return e.Delay
}

func (e *Evaluator) logf(format string, args ...any) {
	if e == nil || e.Progress == nil {
		return
	}
	fmt.Fprintf(e.Progress, format, args...)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
