package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/park285/ecofy-server-go/internal/config"
)

const readHeaderTimeout = 5 * time.Second

// NewHTTPServer 는 HTTP 서버를 생성한다. HTTP2 가 켜지면 h2c 로 감싼다.
func NewHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	var handler http.Handler = router
	if cfg.HTTP.HTTP2Enabled {
		handler = h2c.NewHandler(router, &http2.Server{})
	}

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
