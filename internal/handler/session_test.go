package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/assistant"
	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/session"
)

func newSessionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Session: config.SessionConfig{SessionTTLMinutes: 10, HistoryMaxPairs: 5},
	}
	store, err := session.NewStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chatter := &stubChatter{result: assistant.Result{Reply: "Sorting matters!", Model: "gemini-2.5-flash"}}
	manager := session.NewManager(store, chatter, slog.New(slog.DiscardHandler))

	router := gin.New()
	NewSessionHandler(manager, disabledGuard(t), slog.New(slog.DiscardHandler)).RegisterRoutes(router)
	return router
}

func TestSessionLifecycle(t *testing.T) {
	router := newSessionRouter(t)

	createReq := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(`{"user_id":"u1"}`))
	createReq.Header.Set("Content-Type", "application/json")
	createResp := httptest.NewRecorder()
	router.ServeHTTP(createResp, createReq)
	if createResp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", createResp.Code)
	}

	var info session.Info
	if err := json.Unmarshal(createResp.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.ID == "" || info.UserID != "u1" {
		t.Fatalf("unexpected session info: %+v", info)
	}

	chatBody := []byte(`{"message":"how do I sort batteries?"}`)
	chatReq := httptest.NewRequest(http.MethodPost, "/api/sessions/"+info.ID+"/chat", bytes.NewBuffer(chatBody))
	chatReq.Header.Set("Content-Type", "application/json")
	chatResp := httptest.NewRecorder()
	router.ServeHTTP(chatResp, chatReq)
	if chatResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", chatResp.Code)
	}

	var chat session.ChatResponse
	if err := json.Unmarshal(chatResp.Body.Bytes(), &chat); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if chat.Response != "Sorting matters!" || chat.MessageCount != 2 {
		t.Fatalf("unexpected chat response: %+v", chat)
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+info.ID, nil)
	deleteResp := httptest.NewRecorder()
	router.ServeHTTP(deleteResp, deleteReq)
	if deleteResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", deleteResp.Code)
	}
}

func TestSessionNotFound(t *testing.T) {
	router := newSessionRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error_code"] != "SESSION_NOT_FOUND" {
		t.Fatalf("expected SESSION_NOT_FOUND, got %v", payload["error_code"])
	}
}
