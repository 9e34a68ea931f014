package handlers

import (
	"context"
	"net/http"
	"runtime"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"ViewTube.com/pkg/errno"
)

// HealthProbe 检查一个依赖是否可用，name 用作响应中的键
type HealthProbe map[string]func(ctx context.Context) error

// Health 汇报存储和缓存的可用性以及主机负载。存储不可用时返回 503
func (h *Handlers) Health(ctx context.Context, c *app.RequestContext) {
	deps := utils.H{}
	healthy := true
	for name, check := range h.probe {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
			continue
		}
		deps[name] = "ok"
	}

	host := utils.H{"goroutines": runtime.NumGoroutine()}
	if vm, err := mem.VirtualMemory(); err == nil {
		host["memUsedPercent"] = vm.UsedPercent
	}
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		host["cpuPercent"] = percent[0]
	}
	if avg, err := load.Avg(); err == nil {
		host["load1"] = avg.Load1
	}

	status, resp := http.StatusOK, errno.Success
	if !healthy {
		status, resp = http.StatusServiceUnavailable, errno.ServiceErr.WithMessage("dependency unavailable")
	}
	c.JSON(status, Response{
		Code:    resp.ErrCode,
		Message: resp.ErrMsg,
		Data:    utils.H{"healthy": healthy, "dependencies": deps, "host": host},
	})
}
