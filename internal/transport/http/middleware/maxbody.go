package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "techgarantias/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；handler 通过 c.Error 上报超限且未写响应时返回 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			if IsBodyTooLarge(e.Err) {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooLarge, "request body too large"))
				return
			}
		}
	}
}

func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
