package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/middleware"
)

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	healthHandler *HealthHandler,
	analysisHandler *AnalysisHandler,
	assistantHandler *AssistantHandler,
	sessionHandler *SessionHandler,
	pointsHandler *PointsHandler,
	carbonHandler *CarbonHandler,
	geoHandler *GeoHandler,
	communityHandler *CommunityHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
	)

	healthHandler.RegisterRoutes(router)
	analysisHandler.RegisterRoutes(router)
	assistantHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router)
	pointsHandler.RegisterRoutes(router)
	carbonHandler.RegisterRoutes(router)
	geoHandler.RegisterRoutes(router)
	communityHandler.RegisterRoutes(router)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
