package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/pkg/config"
	"github.com/driftcheck/driftcheck/pkg/history"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath string
		limit  int
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show persisted validation runs",
		Long: `Show validation runs persisted with --history. Without --run, lists the
most recent runs; with --run, prints the stored report for one run.`,
		Example: `  # List the last 20 runs
  driftcheck history --db runs.db

  # Show the full report for one run
  driftcheck history --db runs.db --run 2f1c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.HistoryPath = dbPath
			}
			if cfg.HistoryPath == "" {
				return fmt.Errorf("no history database configured (use --db or the config file)")
			}

			ctx := cmd.Context()
			store, err := history.NewStore(cfg.HistoryPath)
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				rep, err := store.Get(ctx, runID)
				if err != nil {
					return err
				}
				if jsonOutput {
					data, err := json.MarshalIndent(rep, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				}
				rep.Summary(os.Stdout)
				return nil
			}

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				data, err := json.MarshalIndent(runs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}
			for _, run := range runs {
				status := "ok"
				if run.Failed > 0 {
					status = "FAILED"
				}
				fmt.Printf("  %s  %s  total=%d passed=%d failed=%d  %s\n",
					run.RunID, run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Total, run.Passed, run.Failed, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite history database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "show the stored report for one run ID")

	return cmd
}
