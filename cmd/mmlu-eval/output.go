package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/mmlu-eval/internal/history"
	"github.com/stellarlinkco/mmlu-eval/internal/mmlu"
)

const maxErrorExamples = 5

func printDatasetSummary(w io.Writer, name string, res *mmlu.DatasetResult) {
	if res == nil {
		return
	}

	line := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintf(w, "Dataset: %s\n", name)
	fmt.Fprintf(w, "Total: %d\n", res.Total)
	fmt.Fprintf(w, "Correct: %d\n", res.Correct)
	fmt.Fprintf(w, "Accuracy: %.3f (%.1f%%)\n", res.Accuracy, res.Accuracy*100)
	fmt.Fprintf(w, "%s\n", line)

	if len(res.Errors) == 0 {
		return
	}

	fmt.Fprintf(w, "\nFirst %d error(s):\n", min(maxErrorExamples, len(res.Errors)))
	for i, e := range res.Errors {
		if i >= maxErrorExamples {
			break
		}
		fmt.Fprintf(w, "\nError %d:\n", i+1)
		fmt.Fprintf(w, "Question: %s\n", truncate(e.Question, 100))
		fmt.Fprintf(w, "Correct answer: %s\n", e.CorrectAnswer)
		fmt.Fprintf(w, "Predicted answer: %s\n", orNone(e.PredictedAnswer))
		fmt.Fprintf(w, "Raw response: %s\n", orNone(e.RawResponse))
	}
}

func printOverallSummary(w io.Writer, overall *mmlu.OverallResult) {
	if overall == nil {
		return
	}

	line := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintf(w, "Overall results:\n")
	fmt.Fprintf(w, "Total questions: %d\n", overall.TotalQuestions)
	fmt.Fprintf(w, "Total correct: %d\n", overall.TotalCorrect)
	fmt.Fprintf(w, "Overall accuracy: %.3f (%.1f%%)\n", overall.OverallAccuracy, overall.OverallAccuracy*100)
	fmt.Fprintf(w, "%s\n", line)
}

func formatHistoryTable(entries []history.Entry) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tPROVIDER\tDATASET\tCORRECT\tTOTAL\tACCURACY\tRUN AT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%.3f\t%s\n",
			e.ID, e.Model, e.Provider, e.Dataset, e.Correct, e.Total, e.Accuracy,
			e.RunAt.Format("2006-01-02 15:04:05"))
	}
	_ = tw.Flush()
	return buf.String()
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "<none>"
	}
	return s
}
