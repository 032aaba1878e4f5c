package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Blank imports run the init() registration in each package.
	_ "github.com/freshmandi/freshmandi/database/migrations"
	_ "github.com/freshmandi/freshmandi/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "freshmandi",
	Short: "FreshMandi — farm-to-door marketplace CLI",
	Long:  "FreshMandi connects local farmers with buyers. Use this CLI to serve the API and manage the database.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleListCmd)
}
