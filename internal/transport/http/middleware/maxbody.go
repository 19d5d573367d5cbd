package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-restaurant-radar/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；超限时 bind 失败，这里兜底返回统一外壳
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
		}
	}
}
