package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/ecofy-server-go/internal/config"
)

// Provider 는 포인트/커뮤니티 저장소가 공유하는 DB 연결을 관리한다.
// 연결은 첫 사용 시점에 열리므로 DB 없이도 서버는 기동한다.
type Provider struct {
	cfg    *config.Config
	logger *slog.Logger
	models []any

	mu    sync.Mutex
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewProvider 는 DB 프로바이더를 생성한다. models 는 스키마 준비 대상이다.
func NewProvider(cfg *config.Config, logger *slog.Logger, models ...any) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger,
		models: models,
	}
}

// Get 는 연결을 반환하며 필요하면 연다.
func (p *Provider) Get(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db.WithContext(ctx), nil
	}
	if p.cfg == nil {
		return nil, errors.New("database config is nil")
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(postgres.Open(p.cfg.Database.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql db: %w", err)
	}
	sqlDB.SetMaxIdleConns(p.cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(p.cfg.Database.MaxPool)
	sqlDB.SetConnMaxLifetime(time.Duration(p.cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(p.cfg.Database.ConnMaxIdleTimeMinutes) * time.Minute)

	if len(p.models) > 0 {
		if err := db.AutoMigrate(p.models...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("prepare schema: %w", err)
		}
	}

	if p.logger != nil {
		p.logger.Info("db_connected", "host", p.cfg.Database.Host, "name", p.cfg.Database.Name)
	}

	p.db = db
	p.sqlDB = sqlDB
	return p.db.WithContext(ctx), nil
}

// Close 는 연결을 닫는다.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sqlDB == nil {
		return
	}
	_ = p.sqlDB.Close()
	p.sqlDB = nil
	p.db = nil
}
