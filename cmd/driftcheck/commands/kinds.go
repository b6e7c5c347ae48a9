package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftcheck/driftcheck/pkg/config"
	"github.com/driftcheck/driftcheck/pkg/entities"
	"github.com/driftcheck/driftcheck/pkg/registry"
	"github.com/driftcheck/driftcheck/pkg/schemastore"
	"github.com/driftcheck/driftcheck/pkg/telemetry"
)

func newKindsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kinds [schemas-dir]",
		Short: "List registered kinds and their schema coverage",
		Long: `List every kind contributed by the built-in plugins and, when a schema
directory is given (or configured), whether a schema document is loaded
for it. A registered kind without a schema will fail validation with
schema-missing for every object of that kind.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.SchemasDir = args[0]
			}

			reg := registry.New()
			if err := entities.RegisterAll(reg); err != nil {
				return fmt.Errorf("plugin registration failed: %w", err)
			}
			reg.Freeze()

			logger, err := telemetry.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			store := schemastore.NewStore(logger)
			if _, err := os.Stat(cfg.SchemasDir); err == nil {
				if err := store.LoadDir(cfg.SchemasDir); err != nil {
					return err
				}
			}

			type kindInfo struct {
				Kind      string `json:"kind"`
				HasSchema bool   `json:"has_schema"`
			}
			var infos []kindInfo
			for _, kind := range reg.Kinds() {
				infos = append(infos, kindInfo{Kind: kind.String(), HasSchema: store.Has(kind)})
			}

			if jsonOutput {
				data, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("%d registered kind(s):\n", len(infos))
			for _, info := range infos {
				marker := " "
				if info.HasSchema {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, info.Kind)
			}
			if store.Len() > 0 {
				fmt.Println("\n  * = schema document loaded")
			}
			return nil
		},
	}

	return cmd
}
