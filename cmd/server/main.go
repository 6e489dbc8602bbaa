// Command stockbook runs the stock book HTTP server and its data
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/kiwari-pos/stockbook/internal/app"
	"github.com/kiwari-pos/stockbook/internal/config"
	"github.com/kiwari-pos/stockbook/internal/router"
	"github.com/spf13/cobra"
)

const appName = "stockbook"

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds what every subcommand shares.
type options struct {
	envFile  string
	logLevel string
	cfg      *config.Config
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inventory and order-taking for a small shop",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if err := app.SetupLogging(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file to load")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	router.Version = Version

	cmd.AddCommand(
		serveCmd(opts),
		exportCmd(opts),
		importCmd(opts),
		resetCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			// Skip config loading
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}
