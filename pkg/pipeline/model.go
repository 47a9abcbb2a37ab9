package pipeline

import (
	"fmt"

	"github.com/spampipe/spampipe/pkg/dataset"
)

// Model is a fitted chain. It is immutable: Transform never mutates the
// model or its input, and WithThreshold returns a new Model.
type Model struct {
	stages []Stage
}

// NewModel builds a Model directly from fitted stages, used when
// restoring a persisted model
func NewModel(stages ...Stage) *Model {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return &Model{stages: out}
}

// NumStages returns the number of fitted stages
func (m *Model) NumStages() int {
	return len(m.stages)
}

// Stage returns the fitted stage at the given chain position
func (m *Model) Stage(i int) Stage {
	return m.stages[i]
}

// StageNames returns the fitted stage names in chain order
func (m *Model) StageNames() []string {
	names := make([]string, len(m.stages))
	for i, s := range m.stages {
		names[i] = s.Name()
	}
	return names
}

// Transform applies every fitted stage in order to the dataset and
// returns the scored result. Failures propagate from the stage that hit
// them, tagged with its chain position.
func (m *Model) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	cur := ds
	for i, stage := range m.stages {
		next, err := stage.Transform(cur)
		if err != nil {
			return nil, fmt.Errorf("failed to apply stage %d (%s): %w", i+1, stage.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// ThresholdStage is a terminal stage whose decision cutoff can be
// re-instantiated without refitting. WithThreshold must return a new
// stage sharing the learned parameters.
type ThresholdStage interface {
	Stage
	WithThreshold(t float64) Stage
}

// WithThreshold returns a new Model that reuses every prefix stage
// as-is and replaces only the terminal stage with one carrying the given
// decision threshold. The upstream stages, already fitted, are shared
// between the two models.
func (m *Model) WithThreshold(t float64) (*Model, error) {
	if len(m.stages) == 0 {
		return nil, fmt.Errorf("model has no stages")
	}
	last, ok := m.stages[len(m.stages)-1].(ThresholdStage)
	if !ok {
		return nil, fmt.Errorf("terminal stage %q has no decision threshold", m.stages[len(m.stages)-1].Name())
	}

	stages := make([]Stage, len(m.stages))
	copy(stages, m.stages[:len(m.stages)-1])
	stages[len(stages)-1] = last.WithThreshold(t)
	return &Model{stages: stages}, nil
}
