package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goeat-backend/internal/core/auth"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 校验 Bearer access token；requireRole 非空时再做角色门禁。
// 未认证是 401，认证了但角色不够是 403，两者必须分开。
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
