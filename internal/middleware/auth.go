package middleware

import (
	"net/http"
	"strings"

	"spectra-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	contextUserIDKey   = "id"
	contextUsernameKey = "username"
)

// JWTAuth 要求请求携带有效的访问令牌。
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(contextUserIDKey, claims.ID)
		c.Set(contextUsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalJWTAuth 在令牌有效时设置调用者身份，缺失或无效时按匿名访问处理。
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := utils.ParseAccessToken(token); err == nil {
				c.Set(contextUserIDKey, claims.ID)
				c.Set(contextUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// CurrentUserID 返回调用者 ID，匿名访问时为空串。
func CurrentUserID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
