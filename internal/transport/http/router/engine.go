package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"techgarantias/internal/core/auth"
	"techgarantias/internal/core/server"
	"techgarantias/internal/domain"
	mdw "techgarantias/internal/transport/http/middleware"
)

// Limits 两个引擎共用的请求限制
type Limits struct {
	CORSOrigins    []string
	MaxBodyBytes   int64
	MaxConcurrent  int64
	HandlerTimeout time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 300
	}
	return l
}

// HealthFunc 存活检查；nil 表示只要进程在就算健康
type HealthFunc func(*gin.Context) error

func baseEngine(l *zap.Logger, lim Limits, health HealthFunc) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l, lim.CORSOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Recovery(l),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.HandlerTimeout),
	)
	r.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	return r
}

// NewAPIEngine 用户端：/api/v1（公开查询、身份、客户工作台）
func NewAPIEngine(l *zap.Logger, lim Limits, health HealthFunc, reg *Registry) *gin.Engine {
	r := baseEngine(l, lim, health)
	reg.MountAllAPI(r.Group("/api/v1"))
	return r
}

// NewAdminEngine 管理端：/admin/v1 统一要求 admin 角色；/metrics 暴露 prometheus
func NewAdminEngine(l *zap.Logger, lim Limits, health HealthFunc, v *auth.Verifier, reg *Registry) *gin.Engine {
	r := baseEngine(l, lim, health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(v, string(domain.RoleAdmin)))
	reg.MountAllAdmin(admin)
	return r
}
