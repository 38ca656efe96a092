package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vcrobe/assignview/devhost"
)

func newDevHostCmd(c *cli) *cobra.Command {
	var (
		addr     string
		database string
		courseID string
		noSeed   bool
	)
	cmd := &cobra.Command{
		Use:   "devhost",
		Short: "Run the reference host",
		Long: `Serves the panel protocol over WebSocket on /ws and a server-side
preview of the current state on /. Data lives in SQLite; an empty database
is seeded with a demo course unless --no-seed is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.DevHost
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Database = database
			}
			if noSeed {
				cfg.Seed = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, err := devhost.OpenSQLite(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer repo.Close()

			if cfg.Seed {
				if err := devhost.Seed(ctx, repo); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}

			contentID, err := firstContent(ctx, repo, courseID)
			if err != nil {
				return err
			}
			c.logger.Info("devhost starting",
				zap.String("addr", cfg.Addr),
				zap.String("database", cfg.Database),
				zap.String("course", courseID),
				zap.String("content", contentID))

			host := devhost.NewHost(repo, courseID, contentID, cfg.GitLabURL, c.logger)
			return devhost.NewServer(host, c.logger).ListenAndServe(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides devhost.addr)")
	cmd.Flags().StringVar(&database, "db", "", "SQLite DSN (overrides devhost.database)")
	cmd.Flags().StringVar(&courseID, "course", devhost.DemoCourseID, "Course to open")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "Do not seed an empty database")
	return cmd
}

// firstContent picks the content the panel opens on. A course without
// content starts on the empty state.
func firstContent(ctx context.Context, repo devhost.Repository, courseID string) (string, error) {
	content, err := repo.FirstContent(ctx, courseID)
	if errors.Is(err, devhost.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return content.ID, nil
}
