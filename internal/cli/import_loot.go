package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	lootStore "softres/internal/adapters/storage/loot"
	raidStore "softres/internal/adapters/storage/raid"
	"softres/internal/application/orchestrators"
)

// ImportLootCmd returns the import-loot command.
func ImportLootCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-loot <csv>",
		Short: "Import the loot catalog and drop table from a CSV file",
		Long: `Import loot from a CSV with BOSS, ITEM, CATEGORY and SLOT columns.
Items dedup by name, categories are case-normalized, and a drop pair already
in the table is skipped rather than doubled.

Examples:
  srctl import-loot loot.csv
  srctl import-loot loot.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := orchestrators.ExecuteImportLoot(context.Background(),
				orchestrators.ImportLootInput{Reader: f, DryRun: dryRun},
				orchestrators.ImportLootDeps{
					RaidStore: raidStore.NewSQLiteStore(db),
					LootStore: lootStore.NewSQLiteStore(db),
				})
			if err != nil {
				return fmt.Errorf("import loot: %w", err)
			}

			if result.DryRun {
				fmt.Println(color.New(color.FgYellow).Sprint("Dry run, nothing written."))
			}
			fmt.Printf("%d rows: %d items created, %d drops linked, %d skipped\n",
				result.Total, result.Created, result.Linked, result.Skipped)
			for _, rowErr := range result.Errors {
				fmt.Printf("  %s row %d: %s\n", color.New(color.FgRed).Sprint("✗"), rowErr.Row, rowErr.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without writing")
	return cmd
}
