package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "melbgo",
	Short: "shared trip planner backend",
	Long:  `melbgo is the backend of a shared trip planner for the 2026 Melbourne trip: one live trip document, a shared expense ledger, and settlement math for the travellers`,
}

func init() {
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(settleCmd())
}
