package jwt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hutils "github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/jwt"

	"ViewTube.com/config"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

// LoginParam 登录请求
type LoginParam struct {
	UserName string `json:"userName" vd:"len($)>0"`
	Password string `json:"password" vd:"len($)>0"`
}

// Authenticator 校验用户名密码，成功时返回用户ID
type Authenticator func(ctx context.Context, userName, password string) (int64, error)

const insecureDefaultKey = "viewtube-insecure-default-key"

// New 创建 JWT 中间件。token 通过 Authorization: Bearer <token> 传递，
// 用户ID以字符串形式写入 claims，避免解码成 float64 时丢失精度
func New(c config.Jwt, authenticate Authenticator) (*jwt.HertzJWTMiddleware, error) {
	key := c.Secret
	if key == "" {
		key = insecureDefaultKey
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = constants.TokenTimeout
	}
	maxRefresh := c.MaxRefresh
	if maxRefresh <= 0 {
		maxRefresh = constants.TokenRefresh
	}

	return jwt.New(&jwt.HertzJWTMiddleware{
		Realm:         constants.JWTRealm,
		Key:           []byte(key),
		Timeout:       timeout,
		MaxRefresh:    maxRefresh,
		IdentityKey:   constants.IdentityKey,
		TokenLookup:   "header: Authorization",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		Authenticator: func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
			var param LoginParam
			if err := c.BindAndValidate(&param); err != nil {
				return nil, errno.ParamErr.WithMessage(err.Error())
			}
			userId, err := authenticate(ctx, param.UserName, param.Password)
			if err != nil {
				return nil, errno.ConvertErr(err)
			}
			hlog.CtxInfof(ctx, "user %d logged in", userId)
			return userId, nil
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if v, ok := data.(int64); ok {
				return jwt.MapClaims{constants.IdentityKey: strconv.FormatInt(v, 10)}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			id := utils.Transfer(claims[constants.IdentityKey])
			if id <= 0 {
				return nil
			}
			return id
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			_, ok := data.(int64)
			return ok
		},
		LoginResponse:   tokenResponse,
		RefreshResponse: tokenResponse,
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, hutils.H{
				"code":    errno.AuthorizationCode,
				"message": message,
				"data":    nil,
			})
		},
		// 中间件自身的错误(token 过期、缺失等)原样返回，业务错误使用 errno 的消息
		HTTPStatusMessageFunc: func(e error, ctx context.Context, c *app.RequestContext) string {
			var Err errno.ErrNo
			if errors.As(e, &Err) {
				return Err.ErrMsg
			}
			return e.Error()
		},
	})
}

func tokenResponse(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
	c.JSON(code, hutils.H{
		"code":    errno.SuccessCode,
		"message": errno.Success.ErrMsg,
		"data": hutils.H{
			"token":  token,
			"expire": expire.Format(time.RFC3339),
		},
	})
}

// UserID 读取认证中间件写入的用户ID
func UserID(c *app.RequestContext) (int64, bool) {
	v, ok := c.Get(constants.IdentityKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}

// GenerateToken 为用户签发 token，测试和内部工具使用
func GenerateToken(mw *jwt.HertzJWTMiddleware, userId int64) (string, error) {
	token, _, err := mw.TokenGenerator(userId)
	return token, err
}
