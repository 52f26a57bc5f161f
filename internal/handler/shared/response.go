package shared

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/httperror"
	"github.com/park285/ecofy-server-go/internal/middleware"
)

// WriteError 는 도메인 오류를 표준 오류 응답으로 바꿔 기록한다.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// BindJSON 은 본문을 파싱하고 실패하면 검증 오류 응답까지 처리한다.
func BindJSON(c *gin.Context, out any) bool {
	return bind(c, out, false)
}

// BindJSONAllowEmpty 는 본문이 없는 요청도 허용한다.
func BindJSONAllowEmpty(c *gin.Context, out any) bool {
	return bind(c, out, true)
}

func bind(c *gin.Context, out any, allowEmpty bool) bool {
	if c == nil {
		return false
	}
	err := c.ShouldBindJSON(out)
	switch {
	case err == nil:
		return true
	case allowEmpty && errors.Is(err, io.EOF):
		return true
	default:
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
}
