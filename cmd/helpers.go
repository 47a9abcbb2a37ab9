package cmd

import (
	"context"
	"fmt"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/eval"
	"github.com/spampipe/spampipe/pkg/pipeline"
	"github.com/spampipe/spampipe/pkg/store"
)

func loadConfig(path string) (*config.Config, error) {
	return config.LoadConfig(path)
}

// loadModel restores the trained model from the configured store,
// optionally overriding the snapshot path with a file backend
func loadModel(cfg *config.Config, modelPath string) (*pipeline.Model, error) {
	if modelPath != "" {
		cfg.Model.Backend = "file"
		cfg.Model.Path = modelPath
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %v", err)
	}

	snap, err := st.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %v", err)
	}

	return snap.Model()
}

func printMetrics(m *eval.Metrics) {
	fmt.Printf("  Accuracy:  %.4f\n", m.Accuracy)
	fmt.Printf("  Precision: %.4f\n", m.Precision)
	fmt.Printf("  Recall:    %.4f\n", m.Recall)
	fmt.Printf("  F1:        %.4f\n", m.F1)
	fmt.Printf("  AUC:       %.4f\n", m.AUC)
	fmt.Printf("  Confusion: TP=%d FP=%d TN=%d FN=%d (%d rows)\n",
		m.TruePositives, m.FalsePositives, m.TrueNegatives, m.FalseNegatives, m.Rows)
}
