package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/geo"
	"github.com/park285/ecofy-server-go/internal/httperror"
)

// GeoService 는 지오코딩/경로 조회 동작이다.
type GeoService interface {
	Geocode(ctx context.Context, query string) (*geo.Location, error)
	Route(ctx context.Context, from, to geo.Coord) (*geo.Route, error)
}

// GeoHandler 는 지오 API 핸들러다.
type GeoHandler struct {
	client GeoService
	logger *slog.Logger
}

// NewGeoHandler 는 지오 핸들러를 생성한다.
func NewGeoHandler(client GeoService, logger *slog.Logger) *GeoHandler {
	return &GeoHandler{client: client, logger: logger}
}

// RegisterRoutes 는 지오 라우트를 등록한다.
func (h *GeoHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/geo")
	group.GET("/geocode", h.handleGeocode)
	group.GET("/route", h.handleRoute)
}

func (h *GeoHandler) handleGeocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		writeError(c, httperror.NewMissingField("q"))
		return
	}

	loc, err := h.client.Geocode(c.Request.Context(), query)
	if err != nil {
		h.logger.Warn("geocode_failed", "q", query, "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loc)
}

// handleRoute 는 from/to 를 "lat,lng" 형식으로 받는다.
func (h *GeoHandler) handleRoute(c *gin.Context) {
	from, err := geo.ParseCoord(c.Query("from"))
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	to, err := geo.ParseCoord(c.Query("to"))
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	route, err := h.client.Route(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Warn("route_failed", "err", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}
