package mmlu

import "time"

// RowResult is the full record of one evaluated question. Immutable once
// appended to a DatasetResult.
type RowResult struct {
	QuestionID      int               `json:"question_id"`
	Question        string            `json:"question"`
	Options         map[string]string `json:"options"`
	CorrectAnswer   string            `json:"correct_answer"`
	PredictedAnswer string            `json:"predicted_answer"`
	RawResponse     string            `json:"raw_response"`
	IsCorrect       bool              `json:"is_correct"`
}

// DatasetResult accumulates outcomes for one dataset. Details preserves row
// evaluation order; Errors is the incorrect subsequence, in the same order.
type DatasetResult struct {
	Correct  int         `json:"correct"`
	Total    int         `json:"total"`
	Accuracy float64     `json:"accuracy"`
	Details  []RowResult `json:"details"`
	Errors   []RowResult `json:"errors"`
}

// NewDatasetResult returns an empty result (zero counts, 0.0 accuracy).
func NewDatasetResult() *DatasetResult {
	return &DatasetResult{Details: []RowResult{}, Errors: []RowResult{}}
}

func (r *DatasetResult) append(row RowResult) {
	r.Total++
	if row.IsCorrect {
		r.Correct++
	} else {
		r.Errors = append(r.Errors, row)
	}
	r.Details = append(r.Details, row)
	r.Accuracy = r.accuracy()
}

func (r *DatasetResult) accuracy() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// DatasetSummary is the per-dataset slice of an overall result.
type DatasetSummary struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
}

// RunConfig is the configuration snapshot captured with an overall result so
// that a results artifact identifies the run that produced it.
type RunConfig struct {
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
	SampleSize int    `json:"sample_size"`
}

// OverallResult is the cross-dataset aggregate for one run.
type OverallResult struct {
	TotalCorrect    int                       `json:"total_correct"`
	TotalQuestions  int                       `json:"total_questions"`
	OverallAccuracy float64                   `json:"overall_accuracy"`
	DatasetResults  map[string]DatasetSummary `json:"dataset_results"`
	Timestamp       time.Time                 `json:"timestamp"`
	Config          RunConfig                 `json:"config"`
}
