// Command assignview renders, hosts and drives the assignment panel outside
// the editor webview.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/config"
	"github.com/vcrobe/assignview/logging"
)

// cli holds what the persistent flags resolve to.
type cli struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "assignview",
		Short: "State-driven assignment detail panel",
		Long: `assignview renders an assignment detail panel from host-pushed state.

The render command prints the panel HTML for a state file, devhost runs a
reference host backed by SQLite, and attach drives a headless panel against
a running host from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = c.logLevel
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newRenderCmd(c),
		newDevHostCmd(c),
		newAttachCmd(c),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
