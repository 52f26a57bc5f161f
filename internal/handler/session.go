package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/guard"
	"github.com/park285/ecofy-server-go/internal/httperror"
	"github.com/park285/ecofy-server-go/internal/session"
)

// SessionHandler 세션 HTTP 핸들러
type SessionHandler struct {
	manager *session.Manager
	guard   *guard.ContentGuard
	logger  *slog.Logger
}

// NewSessionHandler 세션 핸들러 생성
func NewSessionHandler(manager *session.Manager, contentGuard *guard.ContentGuard, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		guard:   contentGuard,
		logger:  logger,
	}
}

// RegisterRoutes 세션 라우트 등록
func (h *SessionHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/sessions")
	group.POST("", h.handleCreate)
	group.GET("/:id", h.handleGet)
	group.POST("/:id/chat", h.handleChat)
	group.DELETE("/:id", h.handleDelete)
}

func (h *SessionHandler) handleCreate(c *gin.Context) {
	var req session.CreateSessionRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}

	info, err := h.manager.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "", err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

func (h *SessionHandler) handleGet(c *gin.Context) {
	sessionID := c.Param("id")

	info, err := h.manager.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.fail(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *SessionHandler) handleChat(c *gin.Context) {
	sessionID := c.Param("id")

	var req session.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.guard.EnsureSafe(req.Message); err != nil {
		h.fail(c, sessionID, err)
		return
	}

	resp, err := h.manager.Chat(c.Request.Context(), sessionID, req)
	if err != nil {
		h.fail(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) handleDelete(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.manager.Delete(c.Request.Context(), sessionID); err != nil {
		h.fail(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted", "id": sessionID})
}

// fail 은 세션 오류를 응답으로 변환한다. 미존재 세션은 404 로 매핑한다.
func (h *SessionHandler) fail(c *gin.Context, sessionID string, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		writeError(c, httperror.NewSessionNotFound(sessionID))
		return
	}
	h.logger.Warn("session_request_failed", "err", err)
	writeError(c, err)
}
