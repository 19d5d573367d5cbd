package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/service"
	"go-restaurant-radar/internal/transport/http/ez"
)

// RestaurantModule 餐厅 CRUD + 内嵌评论
type RestaurantModule struct {
	dir      *service.DirectoryService
	comments *service.CommentService
	log      *zap.Logger
}

func NewRestaurantModule(dir *service.DirectoryService, comments *service.CommentService, l *zap.Logger) *RestaurantModule {
	return &RestaurantModule{dir: dir, comments: comments, log: l}
}

func (m *RestaurantModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)

	type createIn struct {
		Name        string   `json:"name"        binding:"required,max=128"`
		Description string   `json:"description" binding:"max=1024"`
		Address     string   `json:"address"     binding:"max=256"`
		PhotoURL    string   `json:"photoUrl"    binding:"max=512"`
		Latitude    *float64 `json:"latitude"    binding:"required"`
		Longitude   *float64 `json:"longitude"   binding:"required"`
		Tags        []string `json:"tags"`
	}
	ez.RegisterAction[createIn, *domain.Restaurant](e, ez.Action[createIn, *domain.Restaurant]{
		Method: http.MethodPost,
		Path:   "/restaurants",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (*domain.Restaurant, error) {
			r, err := m.dir.CreateRestaurant(c.Request.Context(), actorOf(c), service.RestaurantInput{
				Name:        in.Name,
				Description: in.Description,
				Address:     in.Address,
				PhotoURL:    in.PhotoURL,
				Latitude:    *in.Latitude,
				Longitude:   *in.Longitude,
				Tags:        in.Tags,
			})
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})

	type listQ struct {
		Name string `form:"name"`
		Tag  string `form:"tag"`
	}
	ez.RegisterAction[listQ, []domain.Restaurant](e, ez.Action[listQ, []domain.Restaurant]{
		Method: http.MethodGet,
		Path:   "/restaurants",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listQ) ([]domain.Restaurant, error) {
			out, err := m.dir.ListRestaurants(c.Request.Context(), actorOf(c), domain.RestaurantFilter{
				Name: in.Name, Tag: in.Tag,
			})
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})

	// 详情即一次浏览：计数 + 写入历史
	ez.RegisterAction[struct{}, *domain.Restaurant](e, ez.Action[struct{}, *domain.Restaurant]{
		Method: http.MethodGet,
		Path:   "/restaurants/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Restaurant, error) {
			r, err := m.dir.ViewRestaurant(c.Request.Context(), actorOf(c).UserID, c.Param("id"))
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})

	type updateIn struct {
		Name        *string   `json:"name"        binding:"omitempty,max=128"`
		Description *string   `json:"description" binding:"omitempty,max=1024"`
		Address     *string   `json:"address"     binding:"omitempty,max=256"`
		PhotoURL    *string   `json:"photoUrl"    binding:"omitempty,max=512"`
		Latitude    *float64  `json:"latitude"`
		Longitude   *float64  `json:"longitude"`
		Tags        *[]string `json:"tags"`
	}
	ez.RegisterAction[updateIn, *domain.Restaurant](e, ez.Action[updateIn, *domain.Restaurant]{
		Method: http.MethodPut,
		Path:   "/restaurants/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (*domain.Restaurant, error) {
			r, err := m.dir.UpdateRestaurant(c.Request.Context(), actorOf(c), c.Param("id"), service.RestaurantPatch{
				Name:        in.Name,
				Description: in.Description,
				Address:     in.Address,
				PhotoURL:    in.PhotoURL,
				Latitude:    in.Latitude,
				Longitude:   in.Longitude,
				Tags:        in.Tags,
			})
			if err != nil {
				return nil, fail(err)
			}
			return r, nil
		},
	})

	ez.RegisterAction[struct{}, gin.H](e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/restaurants/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := m.dir.DeleteRestaurant(c.Request.Context(), actorOf(c), id); err != nil {
				return nil, fail(err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// ---------- 评论 ----------

	type commentIn struct {
		Text   string   `json:"text"   binding:"required,max=2000"`
		Rating *float64 `json:"rating" binding:"required"`
	}
	ez.RegisterAction[commentIn, *domain.Comment](e, ez.Action[commentIn, *domain.Comment]{
		Method: http.MethodPost,
		Path:   "/restaurants/:id/comments",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentIn) (*domain.Comment, error) {
			out, err := m.comments.AddComment(c.Request.Context(), service.AddCommentInput{
				RestaurantID: c.Param("id"),
				AuthorID:     actorOf(c).UserID,
				Text:         in.Text,
				Rating:       *in.Rating,
			})
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})

	type commentPatch struct {
		Text   *string  `json:"text" binding:"omitempty,max=2000"`
		Rating *float64 `json:"rating"`
	}
	ez.RegisterAction[commentPatch, *domain.Comment](e, ez.Action[commentPatch, *domain.Comment]{
		Method: http.MethodPut,
		Path:   "/restaurants/:id/comments/:commentId",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *commentPatch) (*domain.Comment, error) {
			out, err := m.comments.UpdateComment(c.Request.Context(), service.UpdateCommentInput{
				RestaurantID: c.Param("id"),
				CommentID:    c.Param("commentId"),
				AuthorID:     actorOf(c).UserID,
				Text:         in.Text,
				Rating:       in.Rating,
			})
			if err != nil {
				return nil, fail(err)
			}
			return out, nil
		},
	})
}
