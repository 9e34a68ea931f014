package limiter

import (
	"context"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"

	"ViewTube.com/config"
	"ViewTube.com/pkg/constants"
)

// Init 初始化 sentinel 并加载互动写入和级联删除两个资源的限流规则。QPS 为0表示不限流
func Init(c config.Sentinel) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel")
	}
	var rules []*flow.Rule
	for resource, qps := range map[string]float64{
		constants.EngagementResource: c.EngagementQPS,
		constants.CascadeResource:    c.CascadeQPS,
	} {
		if qps <= 0 {
			continue
		}
		rules = append(rules, &flow.Rule{
			Resource:               resource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              qps,
			StatIntervalInMs:       1000,
		})
	}
	if _, err := flow.LoadRules(rules); err != nil {
		return errors.Wrap(err, "load flow rules")
	}
	hlog.Infof("Sentinel flow rules loaded: %d", len(rules))
	return nil
}

// Middleware 超过阈值的请求直接返回 429
func Middleware(resource string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		entry, blockErr := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if blockErr != nil {
			hlog.CtxWarnf(ctx, "request to %s blocked by flow control: %v", resource, blockErr.BlockMsg())
			c.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{
				"code":    consts.StatusTooManyRequests,
				"message": "Too many requests",
				"data":    nil,
			})
			return
		}
		defer entry.Exit()
		c.Next(ctx)
	}
}
