package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-restaurant-radar/internal/core/auth"
	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/service"
	"go-restaurant-radar/internal/transport/http/ez"
)

// AuthModule 注册/登录（公开）+ /me（需登录）
type AuthModule struct {
	dir   *service.DirectoryService
	jwt   *auth.JWTer
	log   *zap.Logger
	guard gin.HandlerFunc // 登录/注册的额外限流，可为 nil
}

func NewAuthModule(dir *service.DirectoryService, j *auth.JWTer, l *zap.Logger, guard gin.HandlerFunc) *AuthModule {
	return &AuthModule{dir: dir, jwt: j, log: l, guard: guard}
}

// 先挂公开路由
func (m *AuthModule) Priority() int { return 0 }

type sessionOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (m *AuthModule) session(u *domain.User) (sessionOut, error) {
	tok, err := m.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return sessionOut{}, ez.Internal("issue token failed", err)
	}
	return sessionOut{Token: tok, User: u}, nil
}

func (m *AuthModule) MountPublic(api *gin.RouterGroup) {
	g := api.Group("/auth")
	if m.guard != nil {
		g.Use(m.guard)
	}
	e := ez.New(g, m.log)

	type registerIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		Name     string `json:"name"     binding:"required,max=64"`
	}
	ez.RegisterAction[registerIn, sessionOut](e, ez.Action[registerIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (sessionOut, error) {
			u, err := m.dir.RegisterUser(c.Request.Context(), service.RegisterInput{
				Email: in.Email, Password: in.Password, Name: in.Name,
			})
			if err != nil {
				return sessionOut{}, fail(err)
			}
			return m.session(u)
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	ez.RegisterAction[loginIn, sessionOut](e, ez.Action[loginIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (sessionOut, error) {
			u, err := m.dir.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return sessionOut{}, fail(err)
			}
			return m.session(u)
		},
	})
}

func (m *AuthModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)

	ez.RegisterAction[struct{}, *domain.User](e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := m.dir.GetUser(c.Request.Context(), actorOf(c).UserID)
			if err != nil {
				return nil, fail(err)
			}
			return u, nil
		},
	})

	type profileIn struct {
		Name        *string `json:"name"        binding:"omitempty,max=64"`
		Description *string `json:"description" binding:"omitempty,max=512"`
		PhotoURL    *string `json:"photoUrl"    binding:"omitempty,max=512"`
	}
	ez.RegisterAction[profileIn, *domain.User](e, ez.Action[profileIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.User, error) {
			u, err := m.dir.UpdateProfile(c.Request.Context(), actorOf(c).UserID, service.ProfilePatch{
				Name: in.Name, Description: in.Description, PhotoURL: in.PhotoURL,
			})
			if err != nil {
				return nil, fail(err)
			}
			return u, nil
		},
	})
}
