package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/cache"
	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/httperror"
)

// RateLimit 는 분 단위 고정 윈도우 요청 제한 미들웨어다.
// 식별자는 API 키 해시 또는 클라이언트 IP 이고, limit 0 이면 꺼진다.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	limiter := newWindowLimiter(cfg)

	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodOptions || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		identity := clientIdentity(c)
		if !limiter.allow(identity) {
			details := map[string]any{
				"path":             c.Request.URL.Path,
				"identity":         identity,
				"limit_per_minute": limiter.limit,
			}
			status, payload := httperror.Response(httperror.NewRateLimitExceeded(details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

type windowLimiter struct {
	limit    int
	counters *cache.TTL[string, int]
}

func newWindowLimiter(cfg *config.Config) *windowLimiter {
	if cfg == nil || cfg.HTTPRateLimit.RequestsPerMinute <= 0 {
		return nil
	}
	ttl := time.Duration(cfg.HTTPRateLimit.CacheTTLSeconds) * time.Second
	return &windowLimiter{
		limit:    cfg.HTTPRateLimit.RequestsPerMinute,
		counters: cache.NewTTL[string, int](cfg.HTTPRateLimit.CacheSize, ttl),
	}
}

func (l *windowLimiter) allow(identity string) bool {
	key := fmt.Sprintf("%s:%d", identity, time.Now().Unix()/60)
	count, ok := l.counters.Modify(key, func(current int, _ bool) int { return current + 1 })
	if !ok {
		return true
	}
	return count <= l.limit
}

// clientIdentity 는 요청 주체를 식별한다. 키가 있으면 키 해시, 없으면 IP.
func clientIdentity(c *gin.Context) string {
	if key := extractAPIKey(c); key != "" {
		return "key:" + hashAPIKey(key)
	}

	if forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return "ip:" + ip
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

func hashAPIKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
