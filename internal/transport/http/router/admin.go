package router

import (
	"github.com/gin-gonic/gin"

	"go-restaurant-radar/internal/domain"
	mdw "go-restaurant-radar/internal/transport/http/middleware"
)

func NewAdminEngine(o Options) *gin.Engine {
	r := newEngine(o)

	// 管理端 v1（统一要求 token 中角色为 admin；写操作在 service 内再按库里角色复核）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(o.JWT, string(domain.RoleAdmin)))
	if o.Modules != nil {
		o.Modules.MountAdmin(admin)
	}
	return r
}
