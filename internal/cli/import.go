package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/archive"
	"github.com/applyrank/applyrank/internal/config"
	"github.com/applyrank/applyrank/internal/ingest"
	"github.com/applyrank/applyrank/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import <edition> [csv]",
	Short: "Import a past edition into the archive",
	Long: `Store a past edition's applicant pool in the archive database, so
repeat applications are detected when the current pool is loaded. Without a
CSV argument the configured pool is imported under the given edition name.

Examples:
  applyrank import 2024 applications-2024.csv
  applyrank import --list`,
	Args: cobra.MaximumNArgs(2),
	RunE: runImport,
}

var importList bool

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importList, "list", false, "List the imported editions")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Pool.ArchiveDB == "" {
		return fmt.Errorf("pool.archive_db is not configured")
	}

	db, err := archive.Open(cfg.Pool.ArchiveDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if importList {
		editions, err := db.ListEditions(ctx)
		if err != nil {
			return err
		}
		return output.Output(outputFmt, editions)
	}

	if len(args) == 0 {
		return fmt.Errorf("expected an edition name (or --list)")
	}
	edition := args[0]
	csvPath := cfg.Pool.CSV
	if len(args) == 2 {
		csvPath = args[1]
	}

	// past editions predate the current survey vocabulary
	pool, err := ingest.LoadCSV(csvPath, nil, true)
	if err != nil {
		return err
	}

	if err := db.ImportEdition(ctx, edition, pool); err != nil {
		return fmt.Errorf("failed to import edition %s: %w", edition, err)
	}
	fmt.Printf("Imported %d applicant(s) as edition %s\n", len(pool), edition)
	return nil
}
