package learning

import (
	"fmt"
	"math/rand"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// RegisterSteps adds the standard spam pipeline step factories to the
// Context catalog
func RegisterSteps(ctx *pipeline.Context, cfg *Config) error {
	factories := map[string]pipeline.Factory{
		StepMapLabel:  NewLabelMapper(cfg),
		StepFeaturize: NewTextFeaturizer(cfg),
		StepTrain:     NewTrainer(cfg),
	}
	for name, factory := range factories {
		if err := ctx.Register(name, factory); err != nil {
			return fmt.Errorf("failed to register step %q: %v", name, err)
		}
	}
	return nil
}

// BuildPipeline assembles the standard spam classification chain:
// label mapping, text featurization, a cache checkpoint so the
// featurized data is not recomputed across training epochs, and the
// logistic regression trainer.
func BuildPipeline(ctx *pipeline.Context, cfg *Config) (*pipeline.Pipeline, error) {
	if _, ok := ctx.Factory(StepMapLabel); !ok {
		if err := RegisterSteps(ctx, cfg); err != nil {
			return nil, err
		}
	}

	p := pipeline.New(ctx).
		AppendNamed(StepMapLabel).
		AppendNamed(StepFeaturize).
		AppendCacheCheckpoint().
		AppendNamed(StepTrain)
	return p, nil
}

// Prediction is the per-message outcome of scoring with a trained model
type Prediction struct {
	Spam        bool    `json:"spam"`
	Score       float64 `json:"score"`
	Probability float64 `json:"probability"`
}

// Predict scores free-text messages with a trained model and returns one
// prediction per input, in input order
func Predict(m *pipeline.Model, texts []string) ([]Prediction, error) {
	scored, err := m.Transform(dataset.FromMessages(texts))
	if err != nil {
		return nil, err
	}

	preds, err := scored.Bools(ColPredicted)
	if err != nil {
		return nil, err
	}
	scores, err := scored.Floats(ColScore)
	if err != nil {
		return nil, err
	}
	probs, err := scored.Floats(ColProbability)
	if err != nil {
		return nil, err
	}

	out := make([]Prediction, len(texts))
	for i := range out {
		out[i] = Prediction{Spam: preds[i], Score: scores[i], Probability: probs[i]}
	}
	return out, nil
}

// Split partitions a dataset into train and test subsets with a seeded
// shuffle. testFraction is the share of rows assigned to the test set.
func Split(ds *dataset.Dataset, testFraction float64, rng *rand.Rand) (train, test *dataset.Dataset, err error) {
	if testFraction < 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v out of range [0, 1)", testFraction)
	}
	n, err := ds.Len()
	if err != nil {
		return nil, nil, err
	}

	indices := rng.Perm(n)
	nTest := int(float64(n) * testFraction)

	test, err = ds.Subset(indices[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = ds.Subset(indices[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
