package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// 模块可实现以下任意组合：公开接口、登录接口、管理端接口
type PublicModule interface{ MountPublic(*gin.RouterGroup) }
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 由 main 显式构造并注册，不再使用包级全局变量
type Registry struct {
	mu     sync.RWMutex
	public []PublicModule
	api    []APIModule
	admin  []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register 根据类型断言分发；同一模块可同时进入多个列表
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(PublicModule); ok {
		r.public = append(r.public, m)
	}
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

// MountPublic 挂载无需登录的接口
func (r *Registry) MountPublic(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]PublicModule(nil), r.public...)
	r.mu.RUnlock()
	for _, m := range byPriority(mods) {
		m.MountPublic(g)
	}
}

// MountAPI 挂载需要登录的用户端接口
func (r *Registry) MountAPI(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.api...)
	r.mu.RUnlock()
	for _, m := range byPriority(mods) {
		m.MountAPI(g)
	}
}

// MountAdmin 挂载管理端接口
func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.admin...)
	r.mu.RUnlock()
	for _, m := range byPriority(mods) {
		m.MountAdmin(g)
	}
}

func byPriority[T any](mods []T) []T {
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	return mods
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
