package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "spampipe",
	Version: "0.1.0",
	Short:   "spampipe - fluent ML pipeline for spam detection",
	Long: `spampipe trains and serves a binary spam/ham text classifier built
from a fluent pipeline of featurization and training steps.

Train on a tab-separated corpus (label<TAB>message per line), evaluate
the trained model, sweep decision thresholds, score individual messages,
or serve the model to an MTA over the milter protocol.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("spampipe - spam classification pipeline")
		fmt.Println("Use 'spampipe --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}
