package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/eval"
	"github.com/spampipe/spampipe/pkg/learning"
	"github.com/spampipe/spampipe/pkg/pipeline"
	"github.com/spampipe/spampipe/pkg/store"
)

var (
	trainData         string
	trainConfig       string
	trainModelPath    string
	trainSeed         int64
	trainTestFraction float64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the spam classification pipeline",
	Long: `Train the spam classification pipeline on a tab-separated corpus
(one "label<TAB>message" row per line, labels "spam" and "ham") and save
the trained model.

The pipeline maps labels, learns a vocabulary, featurizes the messages
and fits a logistic regression classifier. Training is deterministic for
a fixed seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(trainConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if trainModelPath != "" {
			cfg.Model.Backend = "file"
			cfg.Model.Path = trainModelPath
		}
		if cmd.Flags().Changed("seed") {
			cfg.Pipeline.Seed = trainSeed
		}

		ctx := pipeline.NewContext(cfg.Pipeline.Seed)
		p, err := learning.BuildPipeline(ctx, cfg.ToLearning())
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %v", err)
		}

		fmt.Printf("🧠 spampipe Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Corpus: %s\n", trainData)
		fmt.Printf("🔗 Chain: %v\n", p.StepNames())
		fmt.Printf("🎲 Seed: %d\n", cfg.Pipeline.Seed)
		fmt.Printf("\n")

		corpus := dataset.FromTSV(trainData)

		trainSet := corpus
		var testSet *dataset.Dataset
		if trainTestFraction > 0 {
			trainSet, testSet, err = learning.Split(corpus, trainTestFraction, ctx.Rand())
			if err != nil {
				return fmt.Errorf("failed to split corpus: %v", err)
			}
		}

		start := time.Now()
		model, err := p.Fit(trainSet)
		if err != nil {
			return fmt.Errorf("failed to train pipeline: %v", err)
		}
		duration := time.Since(start)

		rows, err := trainSet.Len()
		if err != nil {
			return err
		}

		snap, err := learning.TakeSnapshot(model, rows)
		if err != nil {
			return fmt.Errorf("failed to snapshot model: %v", err)
		}

		st, err := store.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to open model store: %v", err)
		}
		if err := st.Save(context.Background(), snap); err != nil {
			return fmt.Errorf("failed to save model: %v", err)
		}

		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Rows trained: %d\n", rows)
		fmt.Printf("📖 Vocabulary size: %d\n", len(snap.Vocabulary))
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		if fs, ok := st.(*store.FileStore); ok {
			fmt.Printf("💾 Model saved to: %s\n", fs.Path())
		} else {
			fmt.Printf("💾 Model saved to %s backend\n", cfg.Model.Backend)
		}

		if testSet != nil {
			metrics, err := eval.Evaluate(model, testSet)
			if err != nil {
				return fmt.Errorf("failed to evaluate holdout: %v", err)
			}
			fmt.Printf("\n📈 Holdout Evaluation (%.0f%% of corpus)\n", trainTestFraction*100)
			printMetrics(metrics)
		}

		return nil
	},
}

func init() {
	trainCmd.Flags().StringVarP(&trainData, "data", "d", "", "Tab-separated training corpus (required)")
	trainCmd.Flags().StringVarP(&trainConfig, "config", "c", "", "Configuration file path")
	trainCmd.Flags().StringVarP(&trainModelPath, "model", "m", "", "Model file path (overrides config, forces file backend)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 1, "Random seed (overrides config)")
	trainCmd.Flags().Float64Var(&trainTestFraction, "test-fraction", 0, "Hold out this fraction of the corpus for evaluation")
	trainCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(trainCmd)
}
