package di

import (
	"fmt"

	"github.com/park285/ecofy-server-go/internal/analysis"
	"github.com/park285/ecofy-server-go/internal/assistant"
	"github.com/park285/ecofy-server-go/internal/community"
	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/gemini"
	"github.com/park285/ecofy-server-go/internal/geo"
	"github.com/park285/ecofy-server-go/internal/guard"
	"github.com/park285/ecofy-server-go/internal/handler"
	"github.com/park285/ecofy-server-go/internal/logging"
	"github.com/park285/ecofy-server-go/internal/metrics"
	"github.com/park285/ecofy-server-go/internal/points"
	"github.com/park285/ecofy-server-go/internal/server"
	"github.com/park285/ecofy-server-go/internal/session"
	"github.com/park285/ecofy-server-go/internal/storage"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	geminiClient, err := gemini.NewClient(cfg, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	imageAnalyzer, err := analysis.NewAnalyzer(cfg, geminiClient, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	chatAssistant, err := assistant.NewAssistant(cfg, geminiClient, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}

	contentGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	sessionStore, err := session.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, chatAssistant, logger)

	database := storage.NewProvider(cfg, logger,
		&points.UserStats{},
		&points.EcoAction{},
		&community.Tip{},
		&community.Challenge{},
		&community.ChallengeMember{},
		&community.FriendRequest{},
	)
	pointsRepository := points.NewRepository(database, logger)
	communityRepository := community.NewRepository(database, logger)

	geoClient := geo.NewClient(cfg.Geo, logger)

	router := handler.NewRouter(
		cfg,
		logger,
		handler.NewHealthHandler(cfg, sessionStore, metricsStore),
		handler.NewAnalysisHandler(imageAnalyzer, logger),
		handler.NewAssistantHandler(chatAssistant, contentGuard, logger),
		handler.NewSessionHandler(sessionManager, contentGuard, logger),
		handler.NewPointsHandler(cfg, pointsRepository, logger),
		handler.NewCarbonHandler(logger),
		handler.NewGeoHandler(geoClient, logger),
		handler.NewCommunityHandler(communityRepository, logger),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, sessionStore, database), nil
}
