package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techgarantias/internal/core/logger"
	"techgarantias/internal/domain"
	mdw "techgarantias/internal/transport/http/middleware"
	resp "techgarantias/internal/transport/http/response"
)

// EZ 一个路由分组 + 日志；动作通过 RegisterAction 挂上来
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Binder 入参绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 直接指定 code 的动作错误
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | DELETE
	Path    string // 例："/warranties/:id/status"
	Binder  Binder
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在 EZ 分组下注册动作；错误统一映射成信封 code
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			if c.GetString(mdw.KeyUserID) == "" {
				abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString(mdw.KeyRole), a.Roles) {
				abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			if mdw.IsBodyTooLarge(bindErr) {
				abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			abort(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			code, msg := Classify(err)
			if code == resp.CodeServerError {
				logger.ForRequest(e.log, c.GetString(mdw.KeyRequestID)).Error("action failed",
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			abort(c, code, msg)
			return
		}
		c.Set(mdw.KeyRespCode, resp.CodeOK)
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Classify 错误 -> (code, 对外文案)；存储故障等只给通用文案
func Classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrStore):
		return resp.CodeServerError, "internal error"
	case errors.As(err, &ve):
		return resp.CodeBadRequest, ve.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp.CodeUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrUnauthenticated):
		return resp.CodeUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		return resp.CodeConflict, "conflict"
	}
	return resp.CodeServerError, "internal error"
}

func abort(c *gin.Context, code int, msg string) {
	c.Set(mdw.KeyRespCode, code)
	c.AbortWithStatusJSON(http.StatusOK, resp.Error(code, msg))
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
