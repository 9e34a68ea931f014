package main

import (
	"github.com/spf13/cobra"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.ConfigInfo.Mysql
			c.AutoMigrate = false
			store, err := db.Open(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Migrate(cmd.Context())
		},
	}
}
