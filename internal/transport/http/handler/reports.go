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

// ReportModule 用户端举报；管理端审核队列与处理
type ReportModule struct {
	mod *service.ModerationService
	log *zap.Logger
}

func NewReportModule(mod *service.ModerationService, l *zap.Logger) *ReportModule {
	return &ReportModule{mod: mod, log: l}
}

func (m *ReportModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)

	type fileIn struct {
		TargetKind   string `json:"targetKind"   binding:"required"`
		TargetID     string `json:"targetId"     binding:"required"`
		RestaurantID string `json:"restaurantId"`
		Reason       string `json:"reason"       binding:"required,max=256"`
		Observation  string `json:"observation"  binding:"max=1024"`
	}
	ez.RegisterAction[fileIn, *domain.Report](e, ez.Action[fileIn, *domain.Report]{
		Method: http.MethodPost,
		Path:   "/reports",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *fileIn) (*domain.Report, error) {
			r, err := m.mod.FileReport(c.Request.Context(), service.FileReportInput{
				ReporterID:   actorOf(c).UserID,
				TargetKind:   domain.TargetKind(in.TargetKind),
				TargetID:     in.TargetID,
				RestaurantID: in.RestaurantID,
				Reason:       in.Reason,
				Observation:  in.Observation,
			})
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})
}

func (m *ReportModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.log)

	type listQ struct {
		pageQ
		Status     string `form:"status"`
		TargetKind string `form:"targetKind"`
		TargetID   string `form:"targetId"`
	}
	ez.RegisterAction[listQ, resp.Page](e, ez.Action[listQ, resp.Page]{
		Method: http.MethodGet,
		Path:   "/reports",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (resp.Page, error) {
			items, total, err := m.mod.ListReports(c.Request.Context(), domain.ReportFilter{
				Status:     domain.ReportStatus(in.Status),
				TargetKind: domain.TargetKind(in.TargetKind),
				TargetID:   in.TargetID,
				Offset:     in.Offset,
				Limit:      in.Limit,
			})
			if err != nil {
				return resp.Page{}, fail(err)
			}
			return resp.Page{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction[struct{}, *domain.Report](e, ez.Action[struct{}, *domain.Report]{
		Method: http.MethodGet,
		Path:   "/reports/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Report, error) {
			r, err := m.mod.GetReport(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})

	// disposition 的合法性交给 service 判断，保证错误顺序一致
	type resolveIn struct {
		Disposition        string `json:"disposition"`
		BanDurationSeconds *int64 `json:"banDurationSeconds"`
	}
	ez.RegisterAction[resolveIn, *domain.Report](e, ez.Action[resolveIn, *domain.Report]{
		Method: http.MethodPost,
		Path:   "/reports/:id/resolve",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{string(domain.RoleAdmin)},
		Handler: func(c *gin.Context, in *resolveIn) (*domain.Report, error) {
			r, err := m.mod.ProcessReport(c.Request.Context(), actorOf(c), service.ProcessInput{
				ReportID:           c.Param("id"),
				Disposition:        domain.ReportStatus(in.Disposition),
				BanDurationSeconds: in.BanDurationSeconds,
			})
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})
}
