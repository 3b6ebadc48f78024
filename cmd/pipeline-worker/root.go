package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "pipeline-worker",
	Short: "Content derivation pipeline worker",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(migrateCmd)
}
