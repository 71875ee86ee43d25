package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	classStore "softres/internal/adapters/storage/class"
	raidStore "softres/internal/adapters/storage/raid"
	weekStore "softres/internal/adapters/storage/week"
	"softres/internal/application/orchestrators"
)

// SeedCmd returns the seed command.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the raid, class roster and current week",
		Long: `Install the static reference data: the raid and its boss roster, the
thirteen playable classes, and the current week row. Upserts are idempotent,
so seed can be re-run safely against a live database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := orchestrators.ExecuteSeedReference(context.Background(), orchestrators.SeedDeps{
				RaidStore:  raidStore.NewSQLiteStore(db),
				ClassStore: classStore.NewSQLiteStore(db),
				WeekStore:  weekStore.NewSQLiteStore(db),
				Now:        time.Now,
			})
			if err != nil {
				return fmt.Errorf("seed reference data: %w", err)
			}

			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Printf("%s Raid seeded (id %d) with %d bosses\n", check, result.RaidID, result.Bosses)
			fmt.Printf("%s %d classes upserted\n", check, result.Classes)
			if result.WeekCreated {
				fmt.Printf("%s Current week created: %s\n", check, result.WeekLabel)
			} else {
				fmt.Printf("%s Current week already present: %s\n", check, result.WeekLabel)
			}
			return nil
		},
	}
}
