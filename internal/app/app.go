package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"techgarantias/internal/core/auth"
	"techgarantias/internal/core/cache"
	"techgarantias/internal/core/config"
	"techgarantias/internal/core/database"
	"techgarantias/internal/core/server"
	"techgarantias/internal/repo"
	"techgarantias/internal/service"
	"techgarantias/internal/transport/http/handler"
	mdw "techgarantias/internal/transport/http/middleware"
	"techgarantias/internal/transport/http/router"
)

// App 两个进程共用的依赖；由 New 按配置装配
type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // redis 未配置时为 nil

	JWT        *auth.JWTer
	Verifier   *auth.Verifier
	Auth       *service.AuthService
	Warranties *service.WarrantyService
}

// New 打开数据库（可选迁移）、redis（可选），装配仓储与服务
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a := &App{Cfg: cfg, Log: log, DB: db}

	var (
		revoker auth.Revoker = auth.NopRevoker{}
		lookup  service.LookupCache
	)
	if cfg.Redis.Enabled() {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := a.Cache.Ping(ctx); err != nil {
			// redis 不可用时照常启动
			log.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		revoker = a.Cache.Revocations()
		lookup = a.Cache
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}
	a.Verifier = &auth.Verifier{JWT: a.JWT, Revoker: revoker}

	a.Auth = service.NewAuthService(repo.NewProfileRepo(db), a.JWT, revoker, service.AuthOptions{
		AdminEmails:    cfg.Auth.AdminEmails,
		MinPasswordLen: cfg.Auth.MinPasswordLen,
	}, log.Named("auth"))

	a.Warranties = service.NewWarrantyService(repo.NewWarrantyRepo(db), lookup, service.WarrantyOptions{
		NumberPrefix:  cfg.Warranty.NumberPrefix,
		NumberRetries: cfg.Warranty.NumberRetries,
		PageSize:      cfg.Warranty.PageSize,
		MaxPageSize:   cfg.Warranty.MaxPageSize,
		LookupTTL:     cfg.Redis.LookupTTL,
	}, log.Named("warranty"))

	return a, nil
}

func (a *App) limits() router.Limits {
	h := a.Cfg.App.HTTP
	return router.Limits{
		CORSOrigins:    h.CORSOrigins,
		MaxBodyBytes:   h.MaxBodyBytes,
		MaxConcurrent:  h.MaxConcurrent,
		HandlerTimeout: h.HandlerTimeout,
	}
}

// health 数据库可达即健康
func (a *App) health(c *gin.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request.Context())
}

// APIEngine 用户端路由：身份 / 公开查询 / 客户工作台
func (a *App) APIEngine() *gin.Engine {
	require := mdw.AuthJWT(a.Verifier, "")
	reg := router.NewRegistry(
		handler.NewAuthModule(a.Auth, require, a.Log),
		handler.NewLookupModule(a.Warranties, a.Log),
		handler.NewWarrantyModule(a.Warranties, require, a.Log),
	)
	return router.NewAPIEngine(a.Log, a.limits(), a.health, reg)
}

// AdminEngine 管理端路由
func (a *App) AdminEngine() *gin.Engine {
	reg := router.NewRegistry(handler.NewWarrantyModule(a.Warranties, nil, a.Log))
	return router.NewAdminEngine(a.Log, a.limits(), a.health, a.Verifier, reg)
}

func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

// Serve 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅关闭
func Serve(log *zap.Logger, name string, srv *http.Server, baseURL string) error {
	log.Info(name+" starting",
		zap.String("addr", srv.Addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s listen: %w", name, err)
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	log.Info(name + " stopped gracefully")
	return nil
}

// HTTPServer 按配置构建 http.Server
func HTTPServer(cfg *config.Config, host string, port int, h http.Handler) *http.Server {
	hc := cfg.App.HTTP
	return server.BuildServer(
		server.Addr(host, port), h,
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)
}
