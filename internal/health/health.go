// Package health 는 서버 구성 요소 상태를 수집한다.
package health

import (
	"context"
	"time"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/metrics"
	"github.com/park285/ecofy-server-go/internal/session"
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 켜지면 세션 저장소에 실제로 ping 한다.
func Collect(ctx context.Context, cfg *config.Config, store session.Storage, stats *metrics.Store, deepChecks bool) Response {
	components := map[string]Component{
		"app":           buildAppStatus(),
		"gemini":        buildGeminiStatus(cfg),
		"session_store": buildSessionStoreStatus(ctx, cfg, store, deepChecks),
		"database":      buildDatabaseStatus(cfg),
		"ai":            buildAIStatus(stats),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{Status: overall, Components: components}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildGeminiStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	models := []string(nil)
	timeoutSeconds := 0
	maxAttempts := 0

	if cfg != nil {
		apiKeyPresent = cfg.Gemini.PrimaryKey() != ""
		models = cfg.Gemini.Models
		timeoutSeconds = cfg.Gemini.TimeoutSeconds
		maxAttempts = cfg.Gemini.MaxAttempts()
	}

	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"models":          models,
			"timeout_seconds": timeoutSeconds,
			"max_attempts":    maxAttempts,
		},
	}
}

// 누적 AI 호출 통계. 집계값이라 상태 판정에는 쓰지 않는다.
func buildAIStatus(stats *metrics.Store) Component {
	detail := map[string]any{}
	if stats != nil {
		for key, value := range stats.Snapshot() {
			detail[key] = value
		}
	}
	return Component{Status: "ok", Detail: detail}
}

func buildSessionStoreStatus(ctx context.Context, cfg *config.Config, store session.Storage, deepChecks bool) Component {
	storeEnabled := false
	sessionTTL := 0
	backend := "memory"
	connected := false
	var checkErr string

	if cfg != nil {
		storeEnabled = cfg.SessionStore.Enabled
		sessionTTL = cfg.Session.SessionTTLMinutes
	}
	if storeEnabled {
		backend = "valkey"
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if deepChecks && store != nil {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := store.Ping(checkCtx); err != nil {
			checkErr = err.Error()
		} else {
			connected = true
		}
	}

	status := "ok"
	if storeEnabled && deepChecks && !connected {
		status = "degraded"
	}

	detail := map[string]any{
		"store_enabled":       storeEnabled,
		"store_connected":     connected,
		"backend":             backend,
		"session_ttl_minutes": sessionTTL,
		"deep_checked":        deepChecks,
	}
	if checkErr != "" {
		detail["error"] = checkErr
	}

	return Component{Status: status, Detail: detail}
}

func buildDatabaseStatus(cfg *config.Config) Component {
	host := ""
	name := ""
	if cfg != nil {
		host = cfg.Database.Host
		name = cfg.Database.Name
	}

	// 연결은 지연 개방이라 설정 존재 여부만 본다.
	status := "ok"
	if host == "" || name == "" {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"host": host,
			"name": name,
		},
	}
}
