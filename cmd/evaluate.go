package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/eval"
)

var (
	evalData      string
	evalConfig    string
	evalModelPath string
	evalThreshold float64
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a trained model on a labeled corpus",
	Long: `Score a labeled tab-separated corpus with a trained model and print
classification metrics (accuracy, precision, recall, F1, AUC).

With --threshold the terminal classifier stage is re-instantiated with
the given decision cutoff; the fitted upstream stages are reused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(evalConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		model, err := loadModel(cfg, evalModelPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("threshold") {
			model, err = model.WithThreshold(evalThreshold)
			if err != nil {
				return fmt.Errorf("failed to set threshold: %v", err)
			}
		}

		corpus := dataset.FromTSV(evalData)

		start := time.Now()
		metrics, err := eval.Evaluate(model, corpus)
		if err != nil {
			return fmt.Errorf("failed to evaluate: %v", err)
		}
		duration := time.Since(start)

		fmt.Printf("📈 spampipe Evaluation\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Corpus: %s\n", evalData)
		if cmd.Flags().Changed("threshold") {
			fmt.Printf("🎯 Threshold: %.2f\n", evalThreshold)
		}
		printMetrics(metrics)
		fmt.Printf("⏱️  Time taken: %v\n", duration)

		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalData, "data", "d", "", "Tab-separated labeled corpus (required)")
	evaluateCmd.Flags().StringVarP(&evalConfig, "config", "c", "", "Configuration file path")
	evaluateCmd.Flags().StringVarP(&evalModelPath, "model", "m", "", "Model file path (overrides config)")
	evaluateCmd.Flags().Float64VarP(&evalThreshold, "threshold", "t", 0.5, "Decision threshold override")
	evaluateCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(evaluateCmd)
}
