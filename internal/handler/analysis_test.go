package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/analysis"
)

type stubAnalyzer struct {
	result analysis.Result
	gotImg string
}

func (s *stubAnalyzer) Analyze(_ context.Context, image string) analysis.Result {
	s.gotImg = image
	return s.result
}

func newAnalysisRouter(stub *stubAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAnalysisHandler(stub, slog.New(slog.DiscardHandler)).RegisterRoutes(router)
	return router
}

func TestAnalyzeImage(t *testing.T) {
	stub := &stubAnalyzer{result: analysis.Result{
		Analysis: analysis.WasteAnalysis{
			ItemName: "Plastic Bottle",
			Material: "PET",
			Category: analysis.CategoryRecycle,
		},
		Model: "gemini-2.5-flash",
	}}
	router := newAnalysisRouter(stub)

	body := []byte(`{"image":"base64data"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/image", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stub.gotImg != "base64data" {
		t.Fatalf("unexpected image payload: %q", stub.gotImg)
	}

	var payload AnalyzeImageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Analysis.ItemName != "Plastic Bottle" {
		t.Fatalf("unexpected item: %q", payload.Analysis.ItemName)
	}
	if payload.Fallback {
		t.Fatalf("expected fallback false")
	}
	if payload.Reward.Points != 30 {
		t.Fatalf("expected recycle reward 30, got %d", payload.Reward.Points)
	}
}

func TestAnalyzeImageFallbackStays200(t *testing.T) {
	stub := &stubAnalyzer{result: analysis.Result{
		Analysis: analysis.FallbackAnalysis(),
		Fallback: true,
		Cause:    errors.New("upstream down"),
	}}
	router := newAnalysisRouter(stub)

	body := []byte(`{"image":"base64data"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/image", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on fallback, got %d", resp.Code)
	}

	var payload AnalyzeImageResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Fallback {
		t.Fatalf("expected fallback true")
	}
	if payload.Model != "" {
		t.Fatalf("fallback must not report a model, got %q", payload.Model)
	}
}

func TestAnalyzeImageMissingImage(t *testing.T) {
	router := newAnalysisRouter(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/image", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}
