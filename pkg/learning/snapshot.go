package learning

import (
	"fmt"
	"time"

	"github.com/spampipe/spampipe/pkg/pipeline"
)

// Snapshot is the persistable form of a trained spam pipeline model:
// the learned vocabulary and classifier parameters plus the learning
// configuration needed to rebuild the stages.
type Snapshot struct {
	Vocabulary []string  `json:"vocabulary"`
	Weights    []float64 `json:"weights"`
	Bias       float64   `json:"bias"`
	Threshold  float64   `json:"threshold"`
	Config     *Config   `json:"config"`

	TrainedAt    time.Time `json:"trained_at"`
	TrainingRows int       `json:"training_rows"`
}

// TakeSnapshot extracts the learned parameters from a model trained with
// the standard spam pipeline. Models whose chain lacks the featurizer or
// classifier stages cannot be snapshotted.
func TakeSnapshot(m *pipeline.Model, trainingRows int) (*Snapshot, error) {
	var feat *featurizeStage
	var cls *classifier
	for i := 0; i < m.NumStages(); i++ {
		switch s := m.Stage(i).(type) {
		case *featurizeStage:
			feat = s
		case *classifier:
			cls = s
		}
	}
	if feat == nil {
		return nil, fmt.Errorf("model has no featurizer stage")
	}
	if cls == nil {
		return nil, fmt.Errorf("model has no classifier stage")
	}

	return &Snapshot{
		Vocabulary:   feat.vocabulary,
		Weights:      cls.weights,
		Bias:         cls.bias,
		Threshold:    cls.threshold,
		Config:       feat.cfg,
		TrainedAt:    time.Now().UTC(),
		TrainingRows: trainingRows,
	}, nil
}

// Model rebuilds the trained model from the snapshot
func (s *Snapshot) Model() (*pipeline.Model, error) {
	if s.Config == nil {
		return nil, fmt.Errorf("snapshot has no learning config")
	}
	if len(s.Weights) != len(s.Vocabulary) {
		return nil, fmt.Errorf("snapshot has %d weights for %d vocabulary words", len(s.Weights), len(s.Vocabulary))
	}

	return pipeline.NewModel(
		&labelStage{spam: s.Config.SpamLabel, ham: s.Config.HamLabel},
		newFeaturizeStage(s.Config, s.Vocabulary),
		&classifier{weights: s.Weights, bias: s.Bias, threshold: s.Threshold},
	), nil
}
