// Package logging 은 tint 콘솔 출력과 lumberjack 파일 회전을 묶은 slog 로거를 만든다.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/park285/ecofy-server-go/internal/config"
)

const logFileName = "server.log"

// NewLogger 는 설정에 따라 로거를 구성하고 전역 기본 로거로 등록한다.
// LogDir 가 비어 있으면 stdout 전용이다.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	sink, toFile, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.New(tint.NewHandler(sink, &tint.Options{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    toFile,
	}))
	slog.SetDefault(logger)

	if toFile {
		logger.Info("file_logging_enabled", "path", filepath.Join(cfg.LogDir, logFileName))
	}
	return logger, nil
}

// buildSink 는 출력 대상을 결정한다. 파일 출력이 켜지면 stdout 과 병행한다.
func buildSink(cfg config.LoggingConfig) (io.Writer, bool, error) {
	logDir := strings.TrimSpace(cfg.LogDir)
	if logDir == "" {
		return os.Stdout, false, nil
	}

	if err := validateRotation(cfg); err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, false, fmt.Errorf("create log dir failed: %w", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(os.Stdout, rotated), true, nil
}

func validateRotation(cfg config.LoggingConfig) error {
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return fmt.Errorf(
			"invalid log config: size=%d backups=%d age_days=%d",
			cfg.MaxSizeMB,
			cfg.MaxBackups,
			cfg.MaxAgeDays,
		)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
