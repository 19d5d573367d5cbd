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

// DiscoveryModule 用户端 /nearby，管理端扫描记录查询
type DiscoveryModule struct {
	prox *service.ProximityService
	log  *zap.Logger
}

func NewDiscoveryModule(prox *service.ProximityService, l *zap.Logger) *DiscoveryModule {
	return &DiscoveryModule{prox: prox, log: l}
}

func (m *DiscoveryModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)

	// lat/lon/radius 用指针，0 是合法值
	type nearbyQ struct {
		Lat    *float64 `form:"lat"    binding:"required"`
		Lon    *float64 `form:"lon"    binding:"required"`
		Radius *float64 `form:"radius" binding:"required"`
		Angle  float64  `form:"angle"`
		Photo  string   `form:"photo"`
	}
	ez.RegisterAction[nearbyQ, []service.NearbyRestaurant](e, ez.Action[nearbyQ, []service.NearbyRestaurant]{
		Method: http.MethodGet,
		Path:   "/nearby",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *nearbyQ) ([]service.NearbyRestaurant, error) {
			out, err := m.prox.FindNearby(c.Request.Context(), service.NearbyQuery{
				UserID:       actorOf(c).UserID,
				PhotoURL:     in.Photo,
				Latitude:     *in.Lat,
				Longitude:    *in.Lon,
				CameraAngle:  in.Angle,
				RadiusMeters: *in.Radius,
			})
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})
}

func (m *DiscoveryModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.log)

	type scansQ struct {
		pageQ
		UserID string `form:"userId"`
	}
	ez.RegisterAction[scansQ, resp.Page](e, ez.Action[scansQ, resp.Page]{
		Method: http.MethodGet,
		Path:   "/scans",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *scansQ) (resp.Page, error) {
			items, total, err := m.prox.ListScans(c.Request.Context(), domain.ScanFilter{
				UserID: in.UserID, Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return resp.Page{}, fail(err)
			}
			return resp.Page{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction[struct{}, *domain.Scan](e, ez.Action[struct{}, *domain.Scan]{
		Method: http.MethodGet,
		Path:   "/scans/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Scan, error) {
			s, err := m.prox.GetScan(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, fail(err)
			}
			return s, nil
		},
	})
}
