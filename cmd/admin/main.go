package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"techgarantias/internal/app"
	"techgarantias/internal/core/config"
	"techgarantias/internal/core/logger"
	"techgarantias/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))

	f := cfg.Log.File
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     f.Enable,
		Filename:   f.Filename,
		MaxSizeMB:  f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAgeDays: f.MaxAgeDays,
		Compress:   f.Compress,
	})
	defer cleanup()
	restore := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer restore()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("admin api init failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	baseURL := server.BaseURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api routes", zap.String("prefix", baseURL+"/admin/v1"))
	srv := app.HTTPServer(cfg, cfg.App.Admin.Host, cfg.App.Admin.Port, a.AdminEngine())
	if err := app.Serve(log, "admin api", srv, baseURL); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
	}
}
