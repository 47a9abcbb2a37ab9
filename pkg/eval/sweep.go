package eval

import (
	"fmt"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// SweepPoint is the outcome of evaluating one decision threshold
type SweepPoint struct {
	Threshold float64 `json:"threshold"`
	SpamCount int     `json:"spam_count"`
	SpamRate  float64 `json:"spam_rate"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Sweep evaluates the model across a range of decision thresholds. For
// each threshold only the terminal classifier stage is re-instantiated;
// the fitted upstream stages are reused unchanged. The spam count is
// monotonically non-increasing as the threshold rises.
func Sweep(m *pipeline.Model, ds *dataset.Dataset, from, to, step float64) ([]SweepPoint, error) {
	if step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %v", step)
	}
	if to < from {
		return nil, fmt.Errorf("sweep range is empty: from %v to %v", from, to)
	}

	var points []SweepPoint
	for t := from; t <= to+step/2; t += step {
		alt, err := m.WithThreshold(t)
		if err != nil {
			return nil, err
		}
		mt, err := Evaluate(alt, ds)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{
			Threshold: t,
			SpamCount: mt.TruePositives + mt.FalsePositives,
			SpamRate:  mt.SpamRate,
			Accuracy:  mt.Accuracy,
			Precision: mt.Precision,
			Recall:    mt.Recall,
			F1:        mt.F1,
		})
	}
	return points, nil
}
