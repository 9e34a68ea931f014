package handlers

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/jwt"
	"ViewTube.com/pkg/utils"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	c.JSON(Err.HTTPStatus(), Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

// Handlers 持有 HTTP 层依赖的服务
type Handlers struct {
	svc   *service.Service
	probe HealthProbe
}

func New(svc *service.Service, probe HealthProbe) *Handlers {
	return &Handlers{svc: svc, probe: probe}
}

// actor 取出当前登录用户，缺失时直接写回 401
func actor(ctx context.Context, c *app.RequestContext) (int64, bool) {
	userId, ok := jwt.UserID(c)
	if !ok {
		hlog.CtxWarnf(ctx, "request %s without identity", c.Path())
		SendResponse(c, errno.TokenInvailedErr, nil)
		return 0, false
	}
	return userId, true
}

// bind 绑定并校验请求体，失败时写回参数错误
func bind(ctx context.Context, c *app.RequestContext, req interface{}) bool {
	if err := c.BindAndValidate(req); err != nil {
		hlog.CtxInfof(ctx, "bind %s failed: %v", c.Path(), err)
		SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return false
	}
	return true
}

// parseID 校验字符串形式的ID，失败时写回参数错误
func parseID(c *app.RequestContext, name, value string) (int64, bool) {
	id, ok := utils.ParseID(value)
	if !ok {
		SendResponse(c, errno.ParamErr.WithMessagef("invalid %s", name), nil)
		return 0, false
	}
	return id, true
}

// optionalString 未提供的字段返回 nil，提供的字段去掉首尾空白。
// 全是空白的值得到指向空串的指针，由调用方决定是否拒绝
func optionalString(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

type PageParam struct {
	PageNum  int `query:"pageNum"`
	PageSize int `query:"pageSize"`
}

func (p PageParam) normalize() (int, int) {
	num, size := p.PageNum, p.PageSize
	if num <= 0 {
		num = 1
	}
	if size <= 0 {
		size = constants.DefaultLimit
	}
	if size > constants.MaxLimit {
		size = constants.MaxLimit
	}
	return num, size
}
