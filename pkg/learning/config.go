package learning

// Config holds the featurization and training parameters shared by the
// standard spam pipeline steps
type Config struct {
	// Word processing
	MinWordLength int  `json:"min_word_length" yaml:"min_word_length"`
	MaxWordLength int  `json:"max_word_length" yaml:"max_word_length"`
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`

	// Vocabulary
	MinWordCount      int `json:"min_word_count" yaml:"min_word_count"`
	MaxVocabularySize int `json:"max_vocabulary_size" yaml:"max_vocabulary_size"`

	// Trainer
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	BatchSize    int     `json:"batch_size" yaml:"batch_size"`

	// Decision threshold on the predicted probability
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Label tokens in the corpus
	SpamLabel string `json:"spam_label" yaml:"spam_label"`
	HamLabel  string `json:"ham_label" yaml:"ham_label"`
}

// DefaultConfig returns the default learning configuration
func DefaultConfig() *Config {
	return &Config{
		MinWordLength:     3,
		MaxWordLength:     20,
		CaseSensitive:     false,
		MinWordCount:      1,
		MaxVocabularySize: 10000,
		LearningRate:      0.1,
		Epochs:            50,
		BatchSize:         32,
		Threshold:         0.5,
		SpamLabel:         "spam",
		HamLabel:          "ham",
	}
}
