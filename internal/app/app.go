package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/auth"
	"go-restaurant-radar/internal/core/cache"
	"go-restaurant-radar/internal/core/config"
	"go-restaurant-radar/internal/core/database"
	"go-restaurant-radar/internal/core/search"
	"go-restaurant-radar/internal/repo"
	"go-restaurant-radar/internal/service"
)

// App 两个进程共用的依赖图：存储、可选的缓存/检索、各个 service
type App struct {
	Store *repo.Store
	Cache *cache.Cache
	JWT   *auth.JWTer

	Proximity  *service.ProximityService
	Engagement *service.EngagementService
	Comments   *service.CommentService
	Moderation *service.ModerationService
	Directory  *service.DirectoryService
}

// Build 打开数据库并按配置接入 redis / elasticsearch；返回的 cleanup 负责释放连接
func Build(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Log:                l,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if sqlDB, e := db.DB(); e == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	store := repo.NewStore(db)
	if cfg.DB.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Enabled {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			cleanup()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closers = append(closers, func() { _ = c.Close() })
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// 接口变量保持 nil，避免把 (*ScanIndex)(nil) 塞进接口
	var sink service.ScanSink
	if cfg.Search.Enabled {
		idx, err := search.NewScanIndex(cfg.Search.URL, cfg.Search.ScanIndex)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := idx.EnsureIndex(ctx); err != nil {
			// 检索是旁路能力，起不来只告警
			l.Warn("scan index unavailable", zap.Error(err))
		} else {
			sink = idx
			l.Info("scan index ready", zap.String("index", cfg.Search.ScanIndex))
		}
	}

	a := &App{
		Store: store,
		Cache: c,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		Proximity:  service.NewProximityService(store, sink, l),
		Engagement: service.NewEngagementService(store),
		Comments:   service.NewCommentService(store, c, l),
		Moderation: service.NewModerationService(store, l),
		Directory:  service.NewDirectoryService(store, c, time.Duration(cfg.Redis.TTLSec)*time.Second, l),
	}
	return a, cleanup, nil
}
