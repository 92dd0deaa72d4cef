package mmlu

import "time"

// Aggregator folds per-dataset results into one OverallResult. Accumulation is
// associative over datasets, so fold order only affects map key ordering, not
// the final sums.
type Aggregator struct {
	overall OverallResult
}

// NewAggregator starts an empty aggregate stamped with the run configuration.
func NewAggregator(cfg RunConfig) *Aggregator {
	return &Aggregator{overall: OverallResult{
		DatasetResults: make(map[string]DatasetSummary),
		Timestamp:      time.Now().UTC(),
		Config:         cfg,
	}}
}

// Add folds one dataset result into the aggregate.
func (a *Aggregator) Add(name string, res *DatasetResult) {
	if a == nil || res == nil {
		return
	}
	a.overall.TotalCorrect += res.Correct
	a.overall.TotalQuestions += res.Total
	a.overall.DatasetResults[name] = DatasetSummary{
		Accuracy: res.Accuracy,
		Correct:  res.Correct,
		Total:    res.Total,
	}
	if a.overall.TotalQuestions > 0 {
		a.overall.OverallAccuracy = float64(a.overall.TotalCorrect) / float64(a.overall.TotalQuestions)
	} else {
		a.overall.OverallAccuracy = 0
	}
}

// Result returns the aggregate built so far. Safe on an empty aggregator:
// zero totals with a 0.0 accuracy rather than a division by zero.
func (a *Aggregator) Result() *OverallResult {
	if a == nil {
		return &OverallResult{DatasetResults: map[string]DatasetSummary{}}
	}
	out := a.overall
	return &out
}

// Aggregate combines named dataset results in one shot.
func Aggregate(results map[string]*DatasetResult, cfg RunConfig) *OverallResult {
	agg := NewAggregator(cfg)
	for name, res := range results {
		agg.Add(name, res)
	}
	return agg.Result()
}
