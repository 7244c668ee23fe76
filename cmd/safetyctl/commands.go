package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shenikar/safety_coordination_system/internal/app"
	"github.com/shenikar/safety_coordination_system/internal/config"
	"github.com/shenikar/safety_coordination_system/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	migrationsDir string
	logLevel      string
	jsonOutput    bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "safetyctl",
		Short:         "Operator tooling for the safety coordination engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load(opts)
			if err != nil {
				return err
			}
			return app.RunMigrations(cfg, opts.migrationsDir, log)
		},
	}
	migrateCmd.Flags().StringVar(&opts.migrationsDir, "dir", "migrations", "migrations directory")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild state from the event log and compare it with the current tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(ctx context.Context, a *app.App) error {
				mismatches, snap, err := a.Recovery.Verify(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					if err := printJSON(out, map[string]any{
						"last_seq":    snap.LastSeq,
						"obligations": len(snap.Obligations),
						"emergencies": len(snap.Emergencies),
						"attempts":    len(snap.Attempts),
						"races":       snap.Races,
						"mismatches":  mismatches,
					}); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(out, "replayed up to seq %d: %d obligations, %d emergencies, %d attempts, %d races\n",
						snap.LastSeq, len(snap.Obligations), len(snap.Emergencies), len(snap.Attempts), snap.Races)
					for _, m := range mismatches {
						fmt.Fprintln(out, m.String())
					}
				}
				if len(mismatches) > 0 {
					return fmt.Errorf("%d mismatches between event log and tables", len(mismatches))
				}
				return nil
			})
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one sweep that restores lost timers and violates overdue obligations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(ctx context.Context, a *app.App) error {
				report, err := a.Recovery.Reconcile(ctx)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored: %d obligations, %d violations, %d emergencies, %d attempts\n",
					report.Obligations, report.Violations, report.Emergencies, report.Attempts)
				return nil
			})
		},
	}

	timersCmd := &cobra.Command{
		Use:   "timers",
		Short: "Show the number of pending durable timers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(ctx context.Context, a *app.App) error {
				n, err := a.Timers.Pending(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d timers pending\n", n)
				return nil
			})
		},
	}

	root.AddCommand(migrateCmd, replayCmd, reconcileCmd, timersCmd)
	return root
}

func load(opts *cliOptions) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.NewWithOutput(opts.logLevel, os.Stderr), nil
}

func withEngine(ctx context.Context, opts *cliOptions, fn func(context.Context, *app.App) error) error {
	cfg, log, err := load(opts)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
