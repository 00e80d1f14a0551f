package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"techgarantias/internal/core/auth"
	"techgarantias/internal/domain"
	resp "techgarantias/internal/transport/http/response"
)

// 鉴权成功后写入 gin.Context 的键
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyEmail  = "email"
	KeyClaims = "claims"
)

// AuthJWT 校验 Bearer 令牌（含吊销名单）；requireRole 非空时还要求角色一致
func AuthJWT(v *auth.Verifier, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := v.Verify(c.Request.Context(), strings.TrimPrefix(ah, "Bearer "))
		switch {
		case errors.Is(err, auth.ErrRevoked):
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "session ended"))
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Set(KeyEmail, claims.Email)
		c.Next()
	}
}

// Actor 当前调用方；未经过 AuthJWT 时为匿名
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:    c.GetString(KeyUserID),
		Email: c.GetString(KeyEmail),
		Role:  domain.Role(c.GetString(KeyRole)),
	}
}

func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	cl, _ := v.(*auth.Claims)
	return cl
}
