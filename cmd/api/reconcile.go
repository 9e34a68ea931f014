package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/config"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute denormalized counters once and repair drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.ConfigInfo
			d, err := newDeps(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer d.Close()

			report, err := service.NewReconciler(d.store, d.locker(), c.Engagement.SyncSubscriberCount).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "videos checked: %d, channels checked: %d, repaired: %d\n",
				report.VideosChecked, report.ChannelsChecked, report.Repaired)
			for _, check := range report.Checks {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+check.Difference)
			}
			return nil
		},
	}
}
