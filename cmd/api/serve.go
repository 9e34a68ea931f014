package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"github.com/spf13/cobra"

	"ViewTube.com/cmd/api/handlers"
	"ViewTube.com/cmd/api/router"
	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/config"
	"ViewTube.com/config/pprof"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/jwt"
	"ViewTube.com/pkg/limiter"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.ConfigInfo)
		},
	}
}

func serve(ctx context.Context, c config.Config) error {
	d, err := newDeps(ctx, c)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := limiter.Init(c.Sentinel); err != nil {
		return err
	}
	pprof.Load(c.Server.PprofAddr)

	auth, err := jwt.New(c.Jwt, func(ctx context.Context, userName, password string) (int64, error) {
		user, err := d.svc.Authenticate(ctx, userName, password)
		if err != nil {
			return 0, err
		}
		return user.UserId, nil
	})
	if err != nil {
		return err
	}

	reconciler := service.NewReconciler(d.store, d.locker(), c.Engagement.SyncSubscriberCount)
	reconciler.Start(ctx, c.Engagement.ReconcileInterval)

	r := server.New(
		server.WithHostPorts(c.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithExitWaitTime(5*time.Second),
	)

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 错误处理
	r.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, handlers.Response{
				Code:    errno.ServiceErrCode,
				Message: fmt.Sprintf("[Recovery] err=%v", err),
			})
		})))

	probe := handlers.HealthProbe{"store": d.store.Ping}
	if d.redis != nil {
		probe["redis"] = func(ctx context.Context) error { return d.redis.Ping(ctx).Err() }
	}
	router.Register(r, handlers.New(d.svc, probe), auth)

	// Spin 自己处理 SIGINT/SIGTERM 并优雅退出，ctx 同时结束后台对账
	hlog.Infof("ViewTube API listening on %s", c.Server.Addr)
	r.Spin()
	return nil
}
