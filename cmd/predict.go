package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spampipe/spampipe/pkg/learning"
)

var (
	predictConfig    string
	predictModelPath string
)

var predictCmd = &cobra.Command{
	Use:   "predict [message]...",
	Short: "Score messages with a trained model",
	Long: `Score one or more messages with a trained model and print the
predicted label and spam probability for each, in input order.

Messages are taken from the arguments, or read line by line from stdin
when no arguments are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(predictConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		model, err := loadModel(cfg, predictModelPath)
		if err != nil {
			return err
		}

		texts := args
		if len(texts) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					continue
				}
				texts = append(texts, line)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read messages: %v", err)
			}
		}
		if len(texts) == 0 {
			return fmt.Errorf("no messages to score")
		}

		preds, err := learning.Predict(model, texts)
		if err != nil {
			return fmt.Errorf("failed to score messages: %v", err)
		}

		for i, pred := range preds {
			label := "HAM "
			if pred.Spam {
				label = "SPAM"
			}
			fmt.Printf("%s  %.4f  %s\n", label, pred.Probability, truncate(texts[i], 60))
		}

		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	predictCmd.Flags().StringVarP(&predictConfig, "config", "c", "", "Configuration file path")
	predictCmd.Flags().StringVarP(&predictModelPath, "model", "m", "", "Model file path (overrides config)")

	rootCmd.AddCommand(predictCmd)
}
