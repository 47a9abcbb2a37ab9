package learning

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// Columns produced by the standard spam pipeline stages
const (
	ColFeatures    = "Features"
	ColPredicted   = "PredictedLabel"
	ColScore       = "Score"
	ColProbability = "Probability"
)

// Catalog names of the standard pipeline steps
const (
	StepMapLabel  = "map-label"
	StepFeaturize = "featurize"
	StepTrain     = "logreg"
)

// NewLabelMapper returns a factory for the step that maps the corpus
// label token column to a bool column (spam = true)
func NewLabelMapper(cfg *Config) pipeline.Factory {
	return func(ctx *pipeline.Context) pipeline.Step {
		return &labelStep{spam: cfg.SpamLabel, ham: cfg.HamLabel}
	}
}

type labelStep struct {
	spam, ham string
}

func (s *labelStep) Name() string { return StepMapLabel }

func (s *labelStep) Fit(ds *dataset.Dataset) (pipeline.Stage, error) {
	return &labelStage{spam: s.spam, ham: s.ham}, nil
}

type labelStage struct {
	spam, ham string
}

func (s *labelStage) Name() string { return StepMapLabel }

// Transform replaces the string label column with a bool column. A
// dataset without a label column (unlabeled messages being scored)
// passes through unchanged.
func (s *labelStage) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := ds.Materialize(); err != nil {
		return nil, err
	}
	col, ok := ds.Schema().Lookup(dataset.ColLabel)
	if !ok {
		return ds, nil
	}
	if col.Kind == dataset.KindBool {
		return ds, nil
	}

	tokens, err := ds.Strings(dataset.ColLabel)
	if err != nil {
		return nil, err
	}

	labels := make([]bool, len(tokens))
	for i, tok := range tokens {
		switch {
		case strings.EqualFold(tok, s.spam):
			labels[i] = true
		case strings.EqualFold(tok, s.ham):
			labels[i] = false
		default:
			return nil, fmt.Errorf("unexpected label %q at row %d (want %q or %q)", tok, i+1, s.spam, s.ham)
		}
	}

	return ds.WithBools(dataset.ColLabel, labels)
}

// NewTextFeaturizer returns a factory for the step that learns a
// vocabulary from the training messages and emits term-frequency vectors
func NewTextFeaturizer(cfg *Config) pipeline.Factory {
	return func(ctx *pipeline.Context) pipeline.Step {
		return &featurizeStep{cfg: cfg}
	}
}

type featurizeStep struct {
	cfg *Config
}

func (s *featurizeStep) Name() string { return StepFeaturize }

// Fit learns the vocabulary: words are extracted from every training
// message, counted, filtered by minimum count, and capped at the
// configured vocabulary size keeping the most frequent words. Ties break
// lexicographically so the vocabulary is deterministic.
func (s *featurizeStep) Fit(ds *dataset.Dataset) (pipeline.Stage, error) {
	texts, err := ds.Strings(dataset.ColText)
	if err != nil {
		return nil, err
	}

	extract := newWordExtractor(s.cfg)
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range extract(text) {
			counts[word]++
		}
	}

	kept := make([]string, 0, len(counts))
	for word, n := range counts {
		if n >= s.cfg.MinWordCount {
			kept = append(kept, word)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if counts[kept[i]] != counts[kept[j]] {
			return counts[kept[i]] > counts[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if s.cfg.MaxVocabularySize > 0 && len(kept) > s.cfg.MaxVocabularySize {
		kept = kept[:s.cfg.MaxVocabularySize]
	}
	sort.Strings(kept)

	return newFeaturizeStage(s.cfg, kept), nil
}

type featurizeStage struct {
	cfg        *Config
	vocabulary []string
	index      map[string]int
	extract    func(string) []string
}

func newFeaturizeStage(cfg *Config, vocabulary []string) *featurizeStage {
	index := make(map[string]int, len(vocabulary))
	for i, word := range vocabulary {
		index[word] = i
	}
	return &featurizeStage{
		cfg:        cfg,
		vocabulary: vocabulary,
		index:      index,
		extract:    newWordExtractor(cfg),
	}
}

func (s *featurizeStage) Name() string { return StepFeaturize }

// Transform emits one term-frequency vector per message. Words outside
// the learned vocabulary are ignored.
func (s *featurizeStage) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	texts, err := ds.Strings(dataset.ColText)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(s.vocabulary))
		for _, word := range s.extract(text) {
			if idx, ok := s.index[word]; ok {
				vec[idx]++
			}
		}
		vectors[i] = vec
	}

	return ds.WithVectors(ColFeatures, vectors)
}

// newWordExtractor builds the word extraction function: words of the
// configured length range, case-folded unless configured otherwise
func newWordExtractor(cfg *Config) func(string) []string {
	re := regexp.MustCompile(fmt.Sprintf(`\b[a-zA-Z]{%d,%d}\b`, cfg.MinWordLength, cfg.MaxWordLength))
	caseSensitive := cfg.CaseSensitive
	return func(text string) []string {
		if !caseSensitive {
			text = strings.ToLower(text)
		}
		return re.FindAllString(text, -1)
	}
}
