package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/service"
	"go-restaurant-radar/internal/transport/http/ez"
	resp "go-restaurant-radar/internal/transport/http/response"
)

// UserAdminModule 管理端用户管理（分组已校验 admin）
type UserAdminModule struct {
	dir *service.DirectoryService
	log *zap.Logger
}

func NewUserAdminModule(dir *service.DirectoryService, l *zap.Logger) *UserAdminModule {
	return &UserAdminModule{dir: dir, log: l}
}

func (m *UserAdminModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.log)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		pageQ
		Q    string `form:"q"` // 按 email/name 模糊搜
		Role string `form:"role"`
	}
	ez.RegisterAction[listQ, resp.Page](e, ez.Action[listQ, resp.Page]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (resp.Page, error) {
			items, total, err := m.dir.ListUsers(c.Request.Context(), domain.UserFilter{
				Query: in.Q, Role: domain.Role(in.Role), Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return resp.Page{}, fail(err)
			}
			return resp.Page{Total: total, Items: items}, nil
		},
	})

	// --- POST /admin/v1/users  新建管理员 ---
	type createIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		Name     string `json:"name"     binding:"required,max=64"`
	}
	ez.RegisterAction[createIn, *domain.User](e, ez.Action[createIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (*domain.User, error) {
			u, err := m.dir.CreateAdmin(c.Request.Context(), actorOf(c), service.RegisterInput{
				Email: in.Email, Password: in.Password, Name: in.Name,
			})
			if err != nil {
				return nil, fail(err)
			}
			return u, nil
		},
	})

	// --- DELETE /admin/v1/users/:id  删除用户 ---
	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := m.dir.DeleteUser(c.Request.Context(), actorOf(c), id); err != nil {
				return nil, fail(err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
