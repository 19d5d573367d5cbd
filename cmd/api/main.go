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
	"golang.org/x/time/rate"

	"go-restaurant-radar/internal/app"
	"go-restaurant-radar/internal/core/config"
	"go-restaurant-radar/internal/core/logger"
	"go-restaurant-radar/internal/core/server"
	"go-restaurant-radar/internal/core/tracking"
	"go-restaurant-radar/internal/transport/http/handler"
	mdw "go-restaurant-radar/internal/transport/http/middleware"
	"go-restaurant-radar/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(config.PathFromFlags(os.Args[1:]))
	log, cleanup := logger.FromOptions(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		App:   "api",
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
		Release:     cfg.App.Name,
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

	// 登录/注册按 IP 单独限流
	authGuard := mdw.RateLimitPerIP(rate.Limit(5), 10)

	mods := router.NewRegistry(
		handler.NewAuthModule(a.Directory, a.JWT, log, authGuard),
		handler.NewDiscoveryModule(a.Proximity, log),
		handler.NewEngagementModule(a.Engagement, log),
		handler.NewRestaurantModule(a.Directory, a.Comments, log),
		handler.NewReportModule(a.Moderation, log),
	)

	// 路由（用户端）
	r := router.NewAPIEngine(router.Options{
		Log:     log,
		JWT:     a.JWT,
		Limits:  cfg.Limits,
		Mode:    ginMode(cfg.App.Env),
		Modules: mods,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if el, e := logger.ToStdLogger(log, zapcore.ErrorLevel); e == nil {
		srv.ErrorLog = el
	}

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("user api shutdown", zap.Error(err))
	}
	log.Info("user api stopped gracefully")
}

func ginMode(env string) string {
	switch env {
	case "prod", "production":
		return "release"
	case "test":
		return "test"
	default:
		return "debug"
	}
}
