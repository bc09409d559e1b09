package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/interfaces/cli/connections"
	"github.com/pulseboard/pulseboard/internal/interfaces/cli/migrate"
	"github.com/pulseboard/pulseboard/internal/interfaces/cli/server"
)

// @title Pulseboard API
// @version 1.0
// @description Platform OAuth connections and token lifecycle for the Pulseboard dashboard.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "pulseboard",
		Short: "Pulseboard - social platform connections",
		Long:  `Pulseboard connects creator accounts on Instagram, Facebook, LinkedIn and YouTube and keeps their tokens fresh.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		connections.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
