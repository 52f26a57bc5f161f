package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/httperror"
)

const bearerPrefix = "bearer "

// APIKeyAuth 는 API 키 인증 미들웨어다. 키가 비어 있으면 인증을 걸지 않는다.
// /api/ 아래 경로만 보호한다.
func APIKeyAuth(cfg *config.Config) gin.HandlerFunc {
	var expected []byte
	if cfg != nil {
		if key := strings.TrimSpace(cfg.HTTPAuth.APIKey); key != "" {
			expected = []byte(key)
		}
	}

	return func(c *gin.Context) {
		if expected == nil || !shouldProtectPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if !keyMatches(extractAPIKey(c), expected) {
			details := map[string]any{"path": c.Request.URL.Path}
			status, payload := httperror.Response(httperror.NewUnauthorized(details), GetRequestID(c))
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Next()
	}
}

func keyMatches(provided string, expected []byte) bool {
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), expected) == 1
}

// extractAPIKey 는 X-API-Key 헤더를 우선하고, 없으면 Bearer 토큰을 본다.
func extractAPIKey(c *gin.Context) string {
	if c == nil {
		return ""
	}

	if value := strings.TrimSpace(c.GetHeader("X-API-Key")); value != "" {
		return value
	}

	authValue := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(authValue), bearerPrefix) {
		return strings.TrimSpace(authValue[len(bearerPrefix):])
	}
	return ""
}

// shouldProtectPath: /api/ 아래만 인증과 요청 제한 대상이다. /health, /metrics 는 제외.
func shouldProtectPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
