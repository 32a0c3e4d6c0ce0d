package apperr

import "net/http"

// E 业务错误：Code 直接取 HTTP 语义，Msg 是对外可见的文案。
// Err 只进日志，永远不出现在响应体里。
type E struct {
	Code int
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *E) Unwrap() error { return e.Err }

func Validation(msg string) error { return &E{Code: http.StatusBadRequest, Msg: msg} }

func Unauthenticated(msg string) error { return &E{Code: http.StatusUnauthorized, Msg: msg} }

func Forbidden(msg string) error { return &E{Code: http.StatusForbidden, Msg: msg} }

func NotFound(msg string) error { return &E{Code: http.StatusNotFound, Msg: msg} }

func Conflict(msg string) error { return &E{Code: http.StatusConflict, Msg: msg} }

// InvalidSignature 支付回执签名校验失败。和普通 400 分开建，语义更清楚。
func InvalidSignature(msg string) error { return &E{Code: http.StatusBadRequest, Msg: msg} }

// GatewayUnavailable 外部支付网关超时/重试耗尽
func GatewayUnavailable(msg string, err error) error {
	return &E{Code: http.StatusBadGateway, Msg: msg, Err: err}
}

func Internal(msg string, err error) error {
	return &E{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}
