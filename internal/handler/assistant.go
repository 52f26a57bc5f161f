package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/assistant"
	"github.com/park285/ecofy-server-go/internal/guard"
	"github.com/park285/ecofy-server-go/internal/llm"
)

// Chatter 는 대화 응답 생성기다.
type Chatter interface {
	Chat(ctx context.Context, message string, history []llm.ChatMessage) assistant.Result
}

// AssistantHandler 는 대화 API 핸들러다.
type AssistantHandler struct {
	assistant Chatter
	guard     *guard.ContentGuard
	logger    *slog.Logger
}

// NewAssistantHandler 는 대화 핸들러를 생성한다.
func NewAssistantHandler(chatter Chatter, contentGuard *guard.ContentGuard, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: chatter, guard: contentGuard, logger: logger}
}

// ChatRequest 는 대화 요청 본문이다.
type ChatRequest struct {
	Message string            `json:"message" binding:"required"`
	History []llm.ChatMessage `json:"history"`
}

// ChatResponse 는 대화 응답 본문이다.
type ChatResponse struct {
	Response string    `json:"response"`
	Model    string    `json:"model,omitempty"`
	Usage    llm.Usage `json:"usage"`
	Fallback bool      `json:"fallback"`
}

// RegisterRoutes 는 대화 라우트를 등록한다.
func (h *AssistantHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/assistant")
	group.POST("/chat", h.handleChat)
}

// handleChat 은 단발 대화를 처리한다. 생성 실패 시에도 폴백 답변으로 200을 준다.
func (h *AssistantHandler) handleChat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.guard.EnsureSafe(req.Message); err != nil {
		h.logger.Warn("chat_blocked", "err", err)
		writeError(c, err)
		return
	}

	result := h.assistant.Chat(c.Request.Context(), req.Message, req.History)

	c.JSON(http.StatusOK, ChatResponse{
		Response: result.Reply,
		Model:    result.Model,
		Usage:    result.Usage,
		Fallback: result.Fallback,
	})
}
