package main

import (
	"github.com/spf13/cobra"

	"ViewTube.com/config"
)

var flagConfigPath string

// newRootCmd 组装根命令，所有子命令执行前先加载配置
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "viewtube",
		Short:         "ViewTube video platform backend",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.Init(flagConfigPath)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConsumeCmd())
	cmd.AddCommand(newReconcileCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
