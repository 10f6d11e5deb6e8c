package middleware

import "github.com/gin-gonic/gin"

// StaticCacheMiddleware 为本地 blob 静态资源添加 Cache-Control 头。
// blob 名每次上传都重新生成，内容不会变化。
func StaticCacheMiddleware(cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Next()
	}
}
