package eval

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/learning"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// Metrics summarizes binary classification quality over a labeled
// dataset. Accuracy is in [0, 1].
type Metrics struct {
	Rows     int     `json:"rows"`
	Accuracy float64 `json:"accuracy"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	AUC       float64 `json:"auc"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`

	// Share of rows the model labeled spam
	SpamRate float64 `json:"spam_rate"`
}

// Evaluate scores a labeled dataset with the model and computes the
// classification metrics
func Evaluate(m *pipeline.Model, ds *dataset.Dataset) (*Metrics, error) {
	scored, err := m.Transform(ds)
	if err != nil {
		return nil, err
	}

	labels, err := scored.Bools(dataset.ColLabel)
	if err != nil {
		return nil, fmt.Errorf("evaluation needs a labeled dataset: %w", err)
	}
	preds, err := scored.Bools(learning.ColPredicted)
	if err != nil {
		return nil, err
	}
	probs, err := scored.Floats(learning.ColProbability)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("evaluation dataset has no rows")
	}

	mt := confusion(labels, preds)
	mt.AUC = rocAUC(probs, labels)
	return mt, nil
}

func confusion(labels, preds []bool) *Metrics {
	m := &Metrics{Rows: len(labels)}
	for i := range labels {
		switch {
		case preds[i] && labels[i]:
			m.TruePositives++
		case preds[i] && !labels[i]:
			m.FalsePositives++
		case !preds[i] && labels[i]:
			m.FalseNegatives++
		default:
			m.TrueNegatives++
		}
	}

	m.Accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(m.Rows)
	m.SpamRate = float64(m.TruePositives+m.FalsePositives) / float64(m.Rows)
	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// rocAUC computes the area under the ROC curve from predicted
// probabilities. stat.ROC wants the scores sorted ascending with their
// classes kept parallel.
func rocAUC(probs []float64, labels []bool) float64 {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return probs[idx[i]] < probs[idx[j]] })

	y := make([]float64, len(probs))
	classes := make([]bool, len(labels))
	for i, j := range idx {
		y[i] = probs[j]
		classes[i] = labels[j]
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
