package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/service"
	"go-restaurant-radar/internal/transport/http/ez"
)

// EngagementModule 收藏与浏览历史，均作用于当前登录用户
type EngagementModule struct {
	eng *service.EngagementService
	log *zap.Logger
}

func NewEngagementModule(eng *service.EngagementService, l *zap.Logger) *EngagementModule {
	return &EngagementModule{eng: eng, log: l}
}

func (m *EngagementModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)

	type favIn struct {
		RestaurantID string `json:"restaurantId" binding:"required"`
	}
	type favOut struct {
		Favorites []string `json:"favorites"`
	}
	ez.RegisterAction[favIn, favOut](e, ez.Action[favIn, favOut]{
		Method: http.MethodPost,
		Path:   "/favorites",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *favIn) (favOut, error) {
			favs, err := m.eng.AddFavorite(c.Request.Context(), actorOf(c).UserID, in.RestaurantID)
			if err != nil {
				return favOut{}, fail(err)
			}
			return favOut{Favorites: favs}, nil
		},
	})

	ez.RegisterAction[idsIn, okOut](e, ez.Action[idsIn, okOut]{
		Method: http.MethodDelete,
		Path:   "/favorites",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *idsIn) (okOut, error) {
			if err := m.eng.RemoveFavorites(c.Request.Context(), actorOf(c).UserID, in.RestaurantIDs); err != nil {
				return okOut{}, fail(err)
			}
			return okOut{OK: true}, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Restaurant](e, ez.Action[struct{}, []domain.Restaurant]{
		Method: http.MethodGet,
		Path:   "/favorites",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Restaurant, error) {
			out, err := m.eng.ListFavoriteRestaurants(c.Request.Context(), actorOf(c).UserID)
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.Restaurant](e, ez.Action[struct{}, []domain.Restaurant]{
		Method: http.MethodGet,
		Path:   "/history",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Restaurant, error) {
			out, err := m.eng.ListHistoryRestaurants(c.Request.Context(), actorOf(c).UserID)
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction[idsIn, okOut](e, ez.Action[idsIn, okOut]{
		Method: http.MethodDelete,
		Path:   "/history",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *idsIn) (okOut, error) {
			if err := m.eng.RemoveFromHistory(c.Request.Context(), actorOf(c).UserID, in.RestaurantIDs); err != nil {
				return okOut{}, fail(err)
			}
			return okOut{OK: true}, nil
		},
	})
}
