package assistant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/gemini"
	"github.com/park285/ecofy-server-go/internal/llm"
	"github.com/park285/ecofy-server-go/internal/metrics"
)

type stubGenerator struct {
	resp    *gemini.Response
	err     error
	lastReq gemini.Request
}

func (s *stubGenerator) Generate(_ context.Context, req gemini.Request) (*gemini.Response, error) {
	s.lastReq = req
	return s.resp, s.err
}

func newTestAssistant(t *testing.T, stub *stubGenerator) *Assistant {
	t.Helper()
	cfg := &config.Config{Gemini: config.GeminiConfig{
		ChatTemperature:     0.9,
		ChatMaxOutputTokens: 1024,
		TopK:                40,
		TopP:                0.95,
	}}
	a, err := NewAssistant(cfg, stub, metrics.NewStore(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("new assistant: %v", err)
	}
	return a
}

func TestChatReturnsModelReply(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{
		StatusCode: http.StatusOK,
		Model:      "m1",
		Text:       "Rinse the jar and reuse it as a planter.",
		Usage:      llm.Usage{InputTokens: 12, OutputTokens: 9, TotalTokens: 21},
	}}
	a := newTestAssistant(t, stub)

	result := a.Chat(context.Background(), "what can I do with a glass jar?", nil)
	if result.Fallback {
		t.Fatalf("unexpected fallback: %v", result.Cause)
	}
	if result.Reply != "Rinse the jar and reuse it as a planter." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if result.Usage.TotalTokens != 21 {
		t.Fatalf("unexpected usage: %+v", result.Usage)
	}
}

func TestChatHistoryAssembly(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: "ok"}}
	a := newTestAssistant(t, stub)

	history := []llm.ChatMessage{
		{Role: "user", Content: "t1"},
		{Role: "model", Content: "t2"},
		{Role: "user", Content: "t3"},
		{Role: "model", Content: "t4"},
		{Role: "user", Content: "t5"},
	}
	a.Chat(context.Background(), "t6", history)

	contents := stub.lastReq.Contents
	if len(contents) != 6 {
		t.Fatalf("expected 5 history turns + current message, got %d", len(contents))
	}
	for i, want := range []string{"t1", "t2", "t3", "t4", "t5", "t6"} {
		if contents[i].Parts[0].Text != want {
			t.Fatalf("turn %d out of order: got %q want %q", i, contents[i].Parts[0].Text, want)
		}
	}
	if contents[5].Role != llm.RoleUser {
		t.Fatalf("current message must be a user turn, got %s", contents[5].Role)
	}
	if stub.lastReq.SystemInstruction == nil {
		t.Fatalf("system instruction missing")
	}
}

func TestChatSystemPromptRendered(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: "ok"}}
	a := newTestAssistant(t, stub)

	if result := a.Chat(context.Background(), "hello", nil); result.Fallback {
		t.Fatalf("unexpected fallback: %v", result.Cause)
	}

	sys := stub.lastReq.SystemInstruction.Parts[0].Text
	if !strings.Contains(sys, "You are Ecofy,") {
		t.Fatalf("persona name missing from system prompt: %q", sys)
	}
	if strings.Contains(sys, "{assistant_name}") {
		t.Fatalf("unrendered placeholder in system prompt: %q", sys)
	}
}

func TestChatExcludesImageTurns(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: "ok"}}
	a := newTestAssistant(t, stub)

	history := []llm.ChatMessage{
		{Role: "user", Content: "look at this", HasImage: true},
		{Role: "model", Content: "nice bottle"},
	}
	a.Chat(context.Background(), "thanks", history)

	contents := stub.lastReq.Contents
	if len(contents) != 2 {
		t.Fatalf("expected image turn to be dropped, got %d turns", len(contents))
	}
	if contents[0].Parts[0].Text != "nice bottle" {
		t.Fatalf("unexpected first turn: %q", contents[0].Parts[0].Text)
	}
}

func TestChatFallsBackToApology(t *testing.T) {
	stub := &stubGenerator{err: errors.New("connection reset")}
	a := newTestAssistant(t, stub)

	result := a.Chat(context.Background(), "hello", nil)
	if !result.Fallback {
		t.Fatalf("expected fallback")
	}
	if result.Reply != a.Apology() {
		t.Fatalf("expected fixed apology, got %q", result.Reply)
	}
	if result.Cause == nil {
		t.Fatalf("fallback must carry its cause")
	}
}

func TestChatUsesChatGenerationConfig(t *testing.T) {
	stub := &stubGenerator{resp: &gemini.Response{StatusCode: http.StatusOK, Text: "ok"}}
	a := newTestAssistant(t, stub)

	a.Chat(context.Background(), "hi", nil)
	genCfg := stub.lastReq.GenerationConfig
	if genCfg.Temperature != 0.9 || genCfg.MaxOutputTokens != 1024 {
		t.Fatalf("unexpected generation config: %+v", genCfg)
	}
}
