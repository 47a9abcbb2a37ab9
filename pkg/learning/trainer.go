package learning

import (
	"fmt"
	"math"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// NewTrainer returns a factory for the binary logistic regression
// trainer step. The step keeps the pipeline Context and draws a fresh
// random source at each Fit, so training is deterministic for a fixed
// seed and re-fitting the same chain reproduces the same model.
func NewTrainer(cfg *Config) pipeline.Factory {
	return func(ctx *pipeline.Context) pipeline.Step {
		return &trainerStep{cfg: cfg, ctx: ctx}
	}
}

type trainerStep struct {
	cfg *Config
	ctx *pipeline.Context
}

func (s *trainerStep) Name() string { return StepTrain }

// Fit trains logistic regression weights with seeded mini-batch SGD over
// the feature vectors and bool labels, and returns the fitted classifier
// stage carrying the learned weights, bias and decision threshold.
func (s *trainerStep) Fit(ds *dataset.Dataset) (pipeline.Stage, error) {
	vectors, err := ds.Vectors(ColFeatures)
	if err != nil {
		return nil, err
	}
	labels, err := ds.Bools(dataset.ColLabel)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("training data has no rows")
	}

	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("feature vector at row %d has %d values, expected %d", i+1, len(vec), dim)
		}
	}

	y := make([]float64, len(labels))
	for i, spam := range labels {
		if spam {
			y[i] = 1
		}
	}

	rng := s.ctx.Rand()

	// Small random init to break symmetry
	weights := make([]float64, dim)
	for i := range weights {
		weights[i] = rng.NormFloat64() * 0.01
	}
	bias := 0.0

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 || batchSize > len(vectors) {
		batchSize = len(vectors)
	}

	indices := make([]int, len(vectors))
	for i := range indices {
		indices[i] = i
	}

	gradW := make([]float64, dim)
	for epoch := 0; epoch < s.cfg.Epochs; epoch++ {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		for start := 0; start < len(indices); start += batchSize {
			end := start + batchSize
			if end > len(indices) {
				end = len(indices)
			}
			batch := indices[start:end]

			for i := range gradW {
				gradW[i] = 0
			}
			gradB := 0.0

			for _, idx := range batch {
				margin := bias
				for j, v := range vectors[idx] {
					margin += weights[j] * v
				}
				// Derivative of the logistic loss
				d := sigmoid(margin) - y[idx]
				for j, v := range vectors[idx] {
					gradW[j] += d * v
				}
				gradB += d
			}

			scale := s.cfg.LearningRate / float64(len(batch))
			for j := range weights {
				weights[j] -= scale * gradW[j]
			}
			bias -= scale * gradB
		}
	}

	return &classifier{
		weights:   weights,
		bias:      bias,
		threshold: s.cfg.Threshold,
	}, nil
}

// classifier is the fitted terminal stage: it scores feature vectors
// against the learned weights and emits the prediction columns
type classifier struct {
	weights   []float64
	bias      float64
	threshold float64
}

func (c *classifier) Name() string { return "classifier" }

// Transform appends PredictedLabel, Score and Probability columns. Score
// is the raw margin, Probability its sigmoid, and PredictedLabel is true
// where Probability clears the decision threshold.
func (c *classifier) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	vectors, err := ds.Vectors(ColFeatures)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(vectors))
	probs := make([]float64, len(vectors))
	preds := make([]bool, len(vectors))
	for i, vec := range vectors {
		if len(vec) != len(c.weights) {
			return nil, fmt.Errorf("feature vector at row %d has %d values, model expects %d", i+1, len(vec), len(c.weights))
		}
		margin := c.bias
		for j, v := range vec {
			margin += c.weights[j] * v
		}
		scores[i] = margin
		probs[i] = sigmoid(margin)
		preds[i] = probs[i] >= c.threshold
	}

	out, err := ds.WithBools(ColPredicted, preds)
	if err != nil {
		return nil, err
	}
	out, err = out.WithFloats(ColScore, scores)
	if err != nil {
		return nil, err
	}
	return out.WithFloats(ColProbability, probs)
}

// WithThreshold returns a copy of the classifier sharing the learned
// weights but carrying a new decision threshold
func (c *classifier) WithThreshold(t float64) pipeline.Stage {
	return &classifier{weights: c.weights, bias: c.bias, threshold: t}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
