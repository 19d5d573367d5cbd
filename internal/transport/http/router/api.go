package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-restaurant-radar/internal/core/auth"
	"go-restaurant-radar/internal/core/config"
	"go-restaurant-radar/internal/core/metrics"
	"go-restaurant-radar/internal/core/server"
	mdw "go-restaurant-radar/internal/transport/http/middleware"
)

type Options struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Limits  config.Limits
	Mode    string
	Modules *Registry
}

// newEngine 两端共用的中间件链与健康检查
func newEngine(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	r := server.NewRouter(o.Log, server.Options{Mode: o.Mode})

	l := withDefaults(o.Limits)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(l.RPS), l.Burst),
		mdw.ConcurrencyLimit(l.Concurrency),
		mdw.MaxBodyBytes(l.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(l.TimeoutSec)*time.Second),
		mdw.Recovery(o.Log),
		mdw.Metrics(),
		mdw.AccessLog(o.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", metrics.Handler())
	return r
}

// withDefaults 未配置（零值）的限流项回落到保守默认
func withDefaults(l config.Limits) config.Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.Concurrency <= 0 {
		l.Concurrency = 300
	}
	if l.MaxBodyMB <= 0 {
		l.MaxBodyMB = 16
	}
	if l.TimeoutSec <= 0 {
		l.TimeoutSec = 10
	}
	return l
}

func NewAPIEngine(o Options) *gin.Engine {
	r := newEngine(o)

	api := r.Group("/api/v1")
	if o.Modules == nil {
		return r
	}

	// 公开接口：注册/登录
	o.Modules.MountPublic(api)

	// 鉴权分组（任意角色）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(o.JWT, ""))
	o.Modules.MountAPI(authUser)

	return r
}
