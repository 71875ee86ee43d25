package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"softres/internal/adapters/storage"
)

// PurgePlayersCmd returns the purge-players command.
func PurgePlayersCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "purge-players",
		Short: "Delete all players, reservations and reservation history",
		Long: `Delete every player account together with its soft-reserve choices and
the per-week reservation history. Reference data (raid, bosses, classes,
loot catalog) and the audit trail are kept.

This cannot be undone. The --confirm flag is required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to purge without --confirm")
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := storage.PurgePlayerData(context.Background(), db)
			if err != nil {
				return fmt.Errorf("purge player data: %w", err)
			}

			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Printf("%s Purged %d players, %d choices, %d log rows\n",
				check, result.Players, result.Choices, result.Logs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Actually perform the purge")
	return cmd
}
