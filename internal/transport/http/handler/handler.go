package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"go-restaurant-radar/internal/domain"
	"go-restaurant-radar/internal/service"
	"go-restaurant-radar/internal/transport/http/ez"
	mdw "go-restaurant-radar/internal/transport/http/middleware"
	resp "go-restaurant-radar/internal/transport/http/response"
)

// actorOf 取 AuthJWT 写入的调用者身份
func actorOf(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: c.GetString(mdw.KeyUserID),
		Role:   domain.Role(c.GetString(mdw.KeyRole)),
	}
}

// fail 把 service.Error 映射成带业务码的 AErr；其它错误原样返回，由 ez 记为 500
func fail(err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return err
	}
	code := resp.CodeServerError
	switch se.Kind {
	case service.KindNotFound:
		code = resp.CodeNotFound
	case service.KindConflict:
		code = resp.CodeConflict
	case service.KindForbidden:
		code = resp.CodeForbidden
		if errors.Is(err, service.ErrBadCredentials) {
			code = resp.CodeUnauthorized
		}
	case service.KindInvalidInput:
		code = resp.CodeBadRequest
	}
	return &ez.AErr{Code: code, Msg: se.Msg, Reason: se.Code, Err: err}
}

// 通用入参
type idsIn struct {
	RestaurantIDs []string `json:"restaurantIds" binding:"required"`
}

type pageQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type okOut struct {
	OK bool `json:"ok"`
}
