package jaeger

import (
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"

	"ViewTube.com/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init 初始化全局 tracer。未配置 agent 地址时保持 opentracing 的 noop tracer，
// gorm 的 opentracing 插件在两种情况下都能工作
func Init(c config.Jaeger) (io.Closer, error) {
	if c.AgentAddr == "" {
		hlog.Info("jaeger agent not configured, tracing disabled")
		return nopCloser{}, nil
	}
	cfg := jaegercfg.Configuration{
		ServiceName: c.ServiceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "probabilistic",
			Param: c.SampleRate,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           false,
			LocalAgentHostPort: c.AgentAddr,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "create jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	hlog.Infof("jaeger tracer initialized, agent=%s", c.AgentAddr)
	return closer, nil
}
