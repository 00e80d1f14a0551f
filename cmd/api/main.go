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
		log.Fatal("user api init failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	baseURL := server.BaseURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api routes", zap.String("prefix", baseURL+"/api/v1"))
	srv := app.HTTPServer(cfg, cfg.App.HTTP.Host, cfg.App.HTTP.Port, a.APIEngine())
	if err := app.Serve(log, "user api", srv, baseURL); err != nil {
		log.Error("user api stopped with error", zap.Error(err))
	}
}
