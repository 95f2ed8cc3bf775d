package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/cmd/inkpost/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkpost",
		Short: "Content tools for the post repository",
	}

	rootCmd.AddCommand(cmd.ValidateCmd())
	rootCmd.AddCommand(cmd.IndexCmd())
	rootCmd.AddCommand(cmd.NewCmd())
	rootCmd.AddCommand(cmd.AssetsCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
