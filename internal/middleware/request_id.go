package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader 는 요청 ID 헤더 키다.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey    = "request_id"
	requestIDBytes  = 16
	maxInboundIDLen = 64
)

// RequestID 는 요청마다 ID 를 부여하고 응답 헤더로 되돌려주는 미들웨어다.
// 클라이언트가 보낸 ID 는 길이 제한 안에서만 신뢰한다.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := inboundRequestID(c)
		if requestID == "" {
			requestID = newRequestID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID: 컨텍스트의 요청 ID를 반환합니다.
func GetRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if requestID, ok := c.Get(requestIDKey); ok {
		if value, ok := requestID.(string); ok {
			return value
		}
	}
	return ""
}

func inboundRequestID(c *gin.Context) string {
	value := c.GetHeader(RequestIDHeader)
	if len(value) == 0 || len(value) > maxInboundIDLen {
		return ""
	}
	return value
}

func newRequestID() string {
	buf := make([]byte, requestIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
