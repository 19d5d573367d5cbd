package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-restaurant-radar/internal/app"
	"go-restaurant-radar/internal/core/config"
	"go-restaurant-radar/internal/core/logger"
	"go-restaurant-radar/internal/core/server"
	"go-restaurant-radar/internal/core/tracking"
	"go-restaurant-radar/internal/transport/http/handler"
	"go-restaurant-radar/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(config.PathFromFlags(os.Args[1:]))
	log, cleanup := logger.FromOptions(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		App:   "admin",
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.Rotate.Enable,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	flush, err := tracking.Init(tracking.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.App.Name + "-admin",
		SampleRate:  cfg.Sentry.SampleRate,
	})
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	a, closeApp, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeApp()

	mods := router.NewRegistry(
		handler.NewReportModule(a.Moderation, log),
		handler.NewUserAdminModule(a.Directory, log),
		handler.NewDiscoveryModule(a.Proximity, log),
	)

	// 路由（后台端）
	r := router.NewAdminEngine(router.Options{
		Log:     log,
		JWT:     a.JWT,
		Limits:  cfg.Limits,
		Mode:    gin2Mode(cfg.App.Env),
		Modules: mods,
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)
	if el, e := logger.ToStdLogger(log, zapcore.ErrorLevel); e == nil {
		srv.ErrorLog = el
	}

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	// 异步启动；失败立即标红退出
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("admin api shutdown", zap.Error(err))
	}
	log.Info("admin api stopped gracefully")
}

func gin2Mode(env string) string {
	if env == "prod" || env == "production" {
		return "release"
	}
	return "debug"
}
