package main

import (
	"os"

	"github.com/spf13/cobra"

	"cardwallet/internal/interfaces/cli/admintoken"
	"cardwallet/internal/interfaces/cli/migrate"
	"cardwallet/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardwallet",
		Short: "Cardwallet - loyalty pass web service",
		Long:  `Cardwallet serves Apple Wallet loyalty passes: device registration, change polling, pass re-issuance and the admin API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		admintoken.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
