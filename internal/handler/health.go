package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/health"
	"github.com/park285/ecofy-server-go/internal/metrics"
	"github.com/park285/ecofy-server-go/internal/session"
)

// HealthHandler 는 상태/메트릭 엔드포인트 핸들러다.
type HealthHandler struct {
	cfg   *config.Config
	store session.Storage
	stats *metrics.Store
}

// NewHealthHandler 는 상태 핸들러를 생성한다.
func NewHealthHandler(cfg *config.Config, store session.Storage, stats *metrics.Store) *HealthHandler {
	return &HealthHandler{cfg: cfg, store: store, stats: stats}
}

// RegisterRoutes 는 상태 라우트를 등록한다.
// /health 는 구성만 보고, /health/ready 는 의존성까지 찔러본다.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.handleHealth)
	router.GET("/health/ready", h.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *HealthHandler) handleHealth(c *gin.Context) {
	resp := health.Collect(c.Request.Context(), h.cfg, h.store, h.stats, false)
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) handleReady(c *gin.Context) {
	resp := health.Collect(c.Request.Context(), h.cfg, h.store, h.stats, true)

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
