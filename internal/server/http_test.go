package server

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cfg := &config.Config{HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 40310}}
	srv := NewHTTPServer(cfg, router)
	if srv.Addr != "127.0.0.1:40310" {
		t.Fatalf("addr = %q", srv.Addr)
	}
	if srv.Handler == nil {
		t.Fatalf("handler is nil")
	}
}

func TestNewHTTPServerH2C(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cfg := &config.Config{HTTP: config.HTTPConfig{Host: "", Port: 8080, HTTP2Enabled: true}}
	srv := NewHTTPServer(cfg, router)
	// h2c 래핑되면 핸들러가 엔진 자체가 아니다.
	if srv.Handler == any(router) {
		t.Fatalf("expected h2c-wrapped handler")
	}
}
