package mmlu

import (
	"math"
	"testing"
)

func TestAggregator_Empty(t *testing.T) {
	overall := Aggregate(map[string]*DatasetResult{}, RunConfig{})

	if overall.TotalQuestions != 0 || overall.TotalCorrect != 0 {
		t.Fatalf("totals: got correct=%d questions=%d want 0/0", overall.TotalCorrect, overall.TotalQuestions)
	}
	if overall.OverallAccuracy != 0.0 {
		t.Fatalf("accuracy: got %v want 0.0", overall.OverallAccuracy)
	}
	if overall.DatasetResults == nil || len(overall.DatasetResults) != 0 {
		t.Fatalf("dataset results: got %#v", overall.DatasetResults)
	}
}

func TestAggregator_Fold(t *testing.T) {
	a := NewDatasetResult()
	a.append(RowResult{QuestionID: 1, IsCorrect: true})
	a.append(RowResult{QuestionID: 2, IsCorrect: true})
	a.append(RowResult{QuestionID: 3})

	b := NewDatasetResult()
	b.append(RowResult{QuestionID: 1, IsCorrect: true})
	b.append(RowResult{QuestionID: 2})

	cfg := RunConfig{BaseURL: "http://127.0.0.1:18000/v1", Model: "m", SampleSize: 0}
	agg := NewAggregator(cfg)
	agg.Add("anatomy", a)
	agg.Add("law", b)
	overall := agg.Result()

	if overall.TotalCorrect != 3 || overall.TotalQuestions != 5 {
		t.Fatalf("totals: got correct=%d questions=%d want 3/5", overall.TotalCorrect, overall.TotalQuestions)
	}
	if math.Abs(overall.OverallAccuracy-0.6) > 1e-9 {
		t.Fatalf("accuracy: got %v want 0.6", overall.OverallAccuracy)
	}
	if overall.Timestamp.IsZero() {
		t.Fatalf("timestamp not captured")
	}
	if overall.Config != cfg {
		t.Fatalf("config snapshot: got %#v want %#v", overall.Config, cfg)
	}

	law, ok := overall.DatasetResults["law"]
	if !ok {
		t.Fatalf("missing dataset summary for law")
	}
	if law.Correct != 1 || law.Total != 2 || law.Accuracy != 0.5 {
		t.Fatalf("law summary: got %#v", law)
	}
}

func TestAggregator_ZeroDatasetKeepsZeroAccuracy(t *testing.T) {
	agg := NewAggregator(RunConfig{})
	agg.Add("empty", NewDatasetResult())
	overall := agg.Result()

	if overall.TotalQuestions != 0 || overall.OverallAccuracy != 0.0 {
		t.Fatalf("got questions=%d accuracy=%v want 0 and 0.0", overall.TotalQuestions, overall.OverallAccuracy)
	}
	if s := overall.DatasetResults["empty"]; s.Total != 0 || s.Accuracy != 0.0 {
		t.Fatalf("empty summary: got %#v", s)
	}
}
