package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/analysis"
	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/points"
)

type stubPointsStore struct {
	record      *points.ActionRecord
	stats       *points.UserStats
	entries     []points.LeaderboardEntry
	actions     []points.EcoAction
	gotCategory analysis.Category
}

func (s *stubPointsStore) RecordAction(_ context.Context, _ string, category analysis.Category, _ string) (*points.ActionRecord, error) {
	s.gotCategory = category
	return s.record, nil
}

func (s *stubPointsStore) GetStats(_ context.Context, userID string) (*points.UserStats, error) {
	if s.stats != nil {
		return s.stats, nil
	}
	return &points.UserStats{UserID: userID}, nil
}

func (s *stubPointsStore) Leaderboard(_ context.Context, _ int) ([]points.LeaderboardEntry, error) {
	return s.entries, nil
}

func (s *stubPointsStore) RecentActions(_ context.Context, _ string, _ int) ([]points.EcoAction, error) {
	return s.actions, nil
}

func newPointsRouter(stub *stubPointsStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Points: config.PointsConfig{LeaderboardLimit: 10}}
	router := gin.New()
	NewPointsHandler(cfg, stub, slog.New(slog.DiscardHandler)).RegisterRoutes(router)
	return router
}

func TestPointsLevel(t *testing.T) {
	router := newPointsRouter(&stubPointsStore{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLevel  int
	}{
		{name: "zero points", query: "?total=0", wantStatus: http.StatusOK, wantLevel: 1},
		{name: "second tier", query: "?total=150", wantStatus: http.StatusOK, wantLevel: 2},
		{name: "top tier", query: "?total=23456", wantStatus: http.StatusOK, wantLevel: 10},
		{name: "missing total", query: "", wantStatus: http.StatusBadRequest},
		{name: "non numeric", query: "?total=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/points/level"+tc.query, nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.Code)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			var info points.LevelInfo
			if err := json.Unmarshal(resp.Body.Bytes(), &info); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if info.Level != tc.wantLevel {
				t.Fatalf("expected level %d, got %d", tc.wantLevel, info.Level)
			}
		})
	}
}

func TestRecordAction(t *testing.T) {
	stub := &stubPointsStore{record: &points.ActionRecord{
		Action: points.EcoAction{UserID: "u1", Category: "recycle", Points: 30},
		Stats:  points.UserStats{UserID: "u1", TotalPoints: 130},
		Level:  points.CalculateLevel(130),
	}}
	router := newPointsRouter(stub)

	body := []byte(`{"user_id":"u1","category":"recycle","item_name":"bottle"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/points/actions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if stub.gotCategory != analysis.CategoryRecycle {
		t.Fatalf("expected recycle category, got %q", stub.gotCategory)
	}

	var record points.ActionRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if record.Level.Level != 2 {
		t.Fatalf("expected level 2, got %d", record.Level.Level)
	}
}

func TestRecordActionUnknownCategory(t *testing.T) {
	router := newPointsRouter(&stubPointsStore{})

	body := []byte(`{"user_id":"u1","category":"burn"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/points/actions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error_code"] != "INVALID_INPUT" {
		t.Fatalf("expected INVALID_INPUT, got %v", payload["error_code"])
	}
}

func TestUserStatsIncludesLevel(t *testing.T) {
	stub := &stubPointsStore{stats: &points.UserStats{UserID: "u1", TotalPoints: 700}}
	router := newPointsRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/points/users/u1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Stats points.UserStats `json:"stats"`
		Level points.LevelInfo `json:"level"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Level.Level != 4 {
		t.Fatalf("expected level 4 at 700 points, got %d", payload.Level.Level)
	}
}
