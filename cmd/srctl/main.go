package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"softres/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "srctl",
		Short:   "srctl - soft-reserve tracker administration",
		Version: version,
		Long: `srctl manages the soft-reserve tracker database: seeding reference data,
importing the loot catalog, and administrative purges.`,
	}

	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.ImportLootCmd())
	rootCmd.AddCommand(cli.PurgePlayersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
