package main

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "tablebook",
		Short:         "Restaurant table reservation service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(newServerCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newStaffCmd())
	root.AddCommand(newTableCmd())
	return root
}
