package errno

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const internalErrMsg = "Internal server error"

const (
	SuccessCode       = 0
	ServiceErrCode    = 10001
	ParamErrCode      = 10002
	ForbiddenCode     = 10003
	NotFoundCode      = 10004
	UnverifiedCode    = 10005
	ConflictCode      = 10006
	AuthorizationCode = 10007
)

// Kind 错误分类，决定 HTTP 状态码以及调用方的处理方式
type Kind int

const (
	KindSuccess Kind = iota
	KindInfrastructure
	KindParam
	KindForbidden
	KindNotFound
	KindUnverified
	KindConflict
	KindAuthorization
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
	Kind    Kind
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

// Is 只按错误码比较，WithMessage 之后的错误仍然能被 errors.Is 识别
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	if !ok {
		return false
	}
	return e.ErrCode == t.ErrCode
}

func NewErrNo(code int64, kind Kind, msg string) ErrNo {
	return ErrNo{ErrCode: code, ErrMsg: msg, Kind: kind}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) WithMessagef(format string, args ...interface{}) ErrNo {
	e.ErrMsg = fmt.Sprintf(format, args...)
	return e
}

// HTTPStatus 把错误分类映射为响应状态码
func (e ErrNo) HTTPStatus() int {
	switch e.Kind {
	case KindSuccess:
		return http.StatusOK
	case KindParam:
		return http.StatusBadRequest
	case KindForbidden, KindUnverified:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var (
	Success          = NewErrNo(SuccessCode, KindSuccess, "Success")
	ServiceErr       = NewErrNo(ServiceErrCode, KindInfrastructure, "Service is unable to start successfully")
	ParamErr         = NewErrNo(ParamErrCode, KindParam, "Wrong Parameter has been given")
	ForbiddenErr     = NewErrNo(ForbiddenCode, KindForbidden, "Operation is not allowed")
	NotFoundErr      = NewErrNo(NotFoundCode, KindNotFound, "Resource not found")
	UnverifiedErr    = NewErrNo(UnverifiedCode, KindUnverified, "Credential verification failed")
	ConflictErr      = NewErrNo(ConflictCode, KindConflict, "Resource state conflict")
	TokenInvailedErr = NewErrNo(AuthorizationCode, KindAuthorization, "Token is invalid or expired")
)

// ConvertErr convert error to Errno。未分类的错误只在服务端记录，
// 返回给客户端的是通用的 ServiceErr，不暴露底层存储或驱动的错误信息
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	hlog.Errorf("internal error: %+v", err)
	return ServiceErr.WithMessage(internalErrMsg)
}

func IsNotFound(err error) bool   { return errors.Is(err, NotFoundErr) }
func IsForbidden(err error) bool  { return errors.Is(err, ForbiddenErr) }
func IsUnverified(err error) bool { return errors.Is(err, UnverifiedErr) }
func IsConflict(err error) bool   { return errors.Is(err, ConflictErr) }
