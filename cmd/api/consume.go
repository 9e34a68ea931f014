package main

import (
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ViewTube.com/cmd/engagement/consumer"
	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/config"
	"ViewTube.com/pkg/mq"
	"ViewTube.com/pkg/oss"
)

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Consume engagement and media cleanup events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := config.ConfigInfo
			url := c.RabbitMq.URL()
			if url == "" {
				return errors.New("rabbitmq is not configured")
			}
			store, err := db.Open(ctx, c.Mysql)
			if err != nil {
				return err
			}
			defer store.Close()

			var media consumer.MediaRemover
			mediaStore, err := oss.NewMediaStore(ctx, c.Minio)
			if err != nil {
				return err
			}
			if mediaStore != nil {
				media = mediaStore
			}

			mqConsumer, err := mq.NewConsumer(url)
			if err != nil {
				return err
			}
			defer mqConsumer.Close()

			if err := consumer.Run(ctx, mqConsumer, consumer.NewHandler(store, media)); err != nil {
				return err
			}
			<-ctx.Done()
			hlog.Info("consumer shutting down")
			return nil
		},
	}
}
