package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/pkg/redis"
)

const rateLimitPrefix = "rate_limit:"

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// 按 客户端 IP + 路由模板 计数，rdb 为 nil（未启用 Redis）时直接放行
// Redis 出错时同样放行，只影响限流不影响业务
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := rateLimitPrefix + c.Request.Method + ":" + c.FullPath() + ":" + c.ClientIP()
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil || allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"code":    10007,
			"message": "请求过于频繁，请稍后再试",
		})
	}
}
