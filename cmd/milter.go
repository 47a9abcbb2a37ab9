package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spampipe/spampipe/pkg/milter"
)

var (
	milterConfigFile string
	milterModelPath  string
	milterNetwork    string
	milterAddress    string
)

var milterCmd = &cobra.Command{
	Use:   "milter",
	Short: "Serve a trained model over the milter protocol",
	Long: `Start a milter server that scores incoming mail with a trained model,
for Postfix/Sendmail integration.

Each message gets X-Spampipe-* headers with the scan result; messages
whose spam probability clears the reject threshold are rejected.

For Postfix integration, add to main.cf:
  smtpd_milters = inet:127.0.0.1:7357
  non_smtpd_milters = inet:127.0.0.1:7357
  milter_default_action = accept`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(milterConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if cmd.Flags().Changed("network") {
			cfg.Milter.Network = milterNetwork
		}
		if cmd.Flags().Changed("address") {
			cfg.Milter.Address = milterAddress
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %v", err)
		}

		model, err := loadModel(cfg, milterModelPath)
		if err != nil {
			return err
		}

		listener, err := net.Listen(cfg.Milter.Network, cfg.Milter.Address)
		if err != nil {
			return fmt.Errorf("failed to create listener: %v", err)
		}
		defer listener.Close()

		server, err := milter.NewServer(cfg, model)
		if err != nil {
			return fmt.Errorf("failed to create milter server: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		serverErr := make(chan error, 1)
		go func() {
			fmt.Printf("📬 spampipe milter server starting on %s://%s\n",
				cfg.Milter.Network, cfg.Milter.Address)
			fmt.Printf("🎯 Reject threshold: %.2f\n", cfg.Milter.RejectThreshold)
			fmt.Printf("🚀 Press Ctrl+C to stop\n\n")

			serverErr <- server.Serve(ctx, listener)
		}()

		select {
		case <-sigChan:
			fmt.Printf("\n🛑 Shutdown signal received, stopping milter server...\n")

			shutdownCtx, shutdownCancel := context.WithTimeout(
				context.Background(),
				time.Duration(cfg.Milter.GracefulShutdownTimeoutMs)*time.Millisecond,
			)
			defer shutdownCancel()

			cancel()

			select {
			case err := <-serverErr:
				if err != nil && err != context.Canceled {
					fmt.Printf("⚠️  Server shutdown with error: %v\n", err)
				} else {
					fmt.Printf("✅ Milter server stopped gracefully\n")
				}
			case <-shutdownCtx.Done():
				fmt.Printf("⏰ Shutdown timeout exceeded, forcing stop\n")
			}

		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("milter server error: %v", err)
			}
		}

		return nil
	},
}

func init() {
	milterCmd.Flags().StringVarP(&milterConfigFile, "config", "c", "", "Configuration file path")
	milterCmd.Flags().StringVarP(&milterModelPath, "model", "m", "", "Model file path (overrides config)")
	milterCmd.Flags().StringVarP(&milterNetwork, "network", "n", "", "Network type (tcp or unix)")
	milterCmd.Flags().StringVarP(&milterAddress, "address", "a", "", "Bind address (e.g., 127.0.0.1:7357 or /tmp/spampipe.sock)")

	rootCmd.AddCommand(milterCmd)
}
