package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/carbon"
	"github.com/park285/ecofy-server-go/internal/httperror"
)

// CarbonHandler 는 탄소 계산 API 핸들러다.
type CarbonHandler struct {
	logger *slog.Logger
}

// NewCarbonHandler 는 탄소 핸들러를 생성한다.
func NewCarbonHandler(logger *slog.Logger) *CarbonHandler {
	return &CarbonHandler{logger: logger}
}

// RegisterRoutes 는 탄소 라우트를 등록한다.
func (h *CarbonHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/carbon")
	group.POST("/footprint", h.handleFootprint)
	group.POST("/trip", h.handleTrip)
	group.GET("/modes", h.handleModes)
}

func (h *CarbonHandler) handleFootprint(c *gin.Context) {
	var req carbon.FootprintInput
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, carbon.Footprint(req))
}

func (h *CarbonHandler) handleTrip(c *gin.Context) {
	var req carbon.TripInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := carbon.Trip(req)
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CarbonHandler) handleModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": carbon.Modes()})
}
