package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/pkg/config"
	"github.com/driftcheck/driftcheck/pkg/entities"
	"github.com/driftcheck/driftcheck/pkg/history"
	"github.com/driftcheck/driftcheck/pkg/pipeline"
	"github.com/driftcheck/driftcheck/pkg/registry"
	"github.com/driftcheck/driftcheck/pkg/report"
	"github.com/driftcheck/driftcheck/pkg/schemastore"
	"github.com/driftcheck/driftcheck/pkg/telemetry"
)

func newValidateCommand() *cobra.Command {
	var (
		watch        bool
		historyPath  string
		failUntested bool
	)

	cmd := &cobra.Command{
		Use:   "validate [objects-dir] [schemas-dir]",
		Short: "Validate exported objects against their kind schemas",
		Long: `Validate a directory of exported object files against a directory of
schema documents.

Every object is parsed, rebuilt through the builder registered for its
kind, re-serialized, and checked against the schema published for that
kind. One object's failure never stops the batch: every file is processed
and all failures are reported together, grouped by kind and pipeline
stage. The exit status is non-zero if any object failed any stage.`,
		Example: `  # Validate with default directory locations (./objects, ./schemas)
  driftcheck validate

  # Validate explicit directories
  driftcheck validate ./export/objects ./export/schemas

  # Keep run history and re-validate whenever objects change
  driftcheck validate --history runs.db --watch ./objects ./schemas`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.ObjectsDir = args[0]
			}
			if len(args) > 1 {
				cfg.SchemasDir = args[1]
			}
			if historyPath != "" {
				cfg.HistoryPath = historyPath
			}
			if failUntested {
				cfg.FailUntested = true
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}

			logger, err := telemetry.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}

			return runValidate(cmd.Context(), logger, cfg, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-run validation when object files change")
	cmd.Flags().StringVar(&historyPath, "history", "", "SQLite database for run history")
	cmd.Flags().BoolVar(&failUntested, "fail-untested", false, "fail if a registered kind has no objects")

	return cmd
}

// runValidate wires the registry, schema store and pipeline together and
// runs the batch (or the watch loop).
func runValidate(ctx context.Context, logger zerolog.Logger, cfg config.Config, watch bool) error {
	// Registration is a fixed init phase: a duplicate kind anywhere is a
	// plugin wiring bug and aborts before any objects are processed.
	reg := registry.New()
	if err := entities.RegisterAll(reg); err != nil {
		return fmt.Errorf("plugin registration failed: %w", err)
	}
	reg.Freeze()

	store := schemastore.NewStore(logger)
	if err := store.LoadDir(cfg.SchemasDir); err != nil {
		return err
	}

	var hist *history.Store
	if cfg.HistoryPath != "" {
		h, err := history.NewStore(cfg.HistoryPath)
		if err != nil {
			return err
		}
		if err := h.Init(ctx); err != nil {
			return err
		}
		defer h.Close()
		hist = h
	}

	pipe := pipeline.New(reg, store, logger)

	handle := func(rep *report.Report) error {
		if err := emitReport(rep); err != nil {
			return err
		}
		if hist != nil {
			if err := hist.Save(ctx, rep); err != nil {
				logger.Error().Err(err).Msg("Failed to persist report")
			}
		}
		return runStatus(rep, cfg.FailUntested)
	}

	if watch {
		err := pipe.Watch(ctx, cfg.ObjectsDir, func(rep *report.Report) {
			if err := handle(rep); err != nil {
				logger.Warn().Err(err).Msg("Run failed")
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	rep, err := pipe.Run(ctx, cfg.ObjectsDir)
	if err != nil {
		return err
	}
	return handle(rep)
}

// emitReport writes the report to stdout in the selected format.
func emitReport(rep *report.Report) error {
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

// runStatus converts a report into the command's exit semantics.
func runStatus(rep *report.Report, failUntested bool) error {
	if rep.HasFailures() {
		return fmt.Errorf("validation failed for %d of %d object(s)", rep.Failed, rep.Total)
	}
	if failUntested && len(rep.Untested) > 0 {
		return fmt.Errorf("%d registered kind(s) had no objects to validate", len(rep.Untested))
	}
	return nil
}
