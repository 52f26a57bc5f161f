package di

import (
	"log/slog"
	"net/http"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/session"
	"github.com/park285/ecofy-server-go/internal/storage"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server       *http.Server
	Logger       *slog.Logger
	Config       *config.Config
	SessionStore *session.Store
	Database     *storage.Provider
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	sessionStore *session.Store,
	database *storage.Provider,
) *App {
	return &App{
		Server:       server,
		Logger:       logger,
		Config:       cfg,
		SessionStore: sessionStore,
		Database:     database,
	}
}

// Close: 앱 리소스를 정리합니다.
func (a *App) Close() {
	if a.SessionStore != nil {
		a.SessionStore.Close()
	}
	if a.Database != nil {
		a.Database.Close()
	}
}
