package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spampipe/spampipe/pkg/chart"
	"github.com/spampipe/spampipe/pkg/dataset"
	"github.com/spampipe/spampipe/pkg/eval"
)

var (
	sweepData      string
	sweepConfig    string
	sweepModelPath string
	sweepFrom      float64
	sweepTo        float64
	sweepStep      float64
	sweepChart     string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep decision thresholds over a labeled corpus",
	Long: `Evaluate a trained model across a range of decision thresholds. For
each threshold only the terminal classifier stage is replaced; the
fitted upstream stages are reused unchanged.

The per-threshold spam count is monotonically non-increasing as the
threshold rises. With --chart the sweep is also rendered as a line
chart (format from the file extension: .png, .svg, .pdf).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(sweepConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if !cmd.Flags().Changed("from") {
			sweepFrom = cfg.Sweep.From
		}
		if !cmd.Flags().Changed("to") {
			sweepTo = cfg.Sweep.To
		}
		if !cmd.Flags().Changed("step") {
			sweepStep = cfg.Sweep.Step
		}

		model, err := loadModel(cfg, sweepModelPath)
		if err != nil {
			return err
		}

		corpus := dataset.FromTSV(sweepData)

		points, err := eval.Sweep(model, corpus, sweepFrom, sweepTo, sweepStep)
		if err != nil {
			return fmt.Errorf("failed to sweep thresholds: %v", err)
		}

		fmt.Printf("🎯 spampipe Threshold Sweep (%.2f to %.2f, step %.2f)\n", sweepFrom, sweepTo, sweepStep)
		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("%9s  %9s  %9s  %9s  %9s\n", "threshold", "spam", "accuracy", "precision", "recall")
		for _, pt := range points {
			fmt.Printf("%9.2f  %9d  %9.4f  %9.4f  %9.4f\n",
				pt.Threshold, pt.SpamCount, pt.Accuracy, pt.Precision, pt.Recall)
		}

		if sweepChart != "" {
			if err := chart.RenderSweep(points, sweepChart); err != nil {
				return fmt.Errorf("failed to render chart: %v", err)
			}
			fmt.Printf("\n📊 Chart written to: %s\n", sweepChart)
		}

		return nil
	},
}

func init() {
	sweepCmd.Flags().StringVarP(&sweepData, "data", "d", "", "Tab-separated labeled corpus (required)")
	sweepCmd.Flags().StringVarP(&sweepConfig, "config", "c", "", "Configuration file path")
	sweepCmd.Flags().StringVarP(&sweepModelPath, "model", "m", "", "Model file path (overrides config)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -0.05, "Sweep start threshold")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.95, "Sweep end threshold")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.05, "Sweep step")
	sweepCmd.Flags().StringVar(&sweepChart, "chart", "", "Write sweep chart to this file")
	sweepCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(sweepCmd)
}
