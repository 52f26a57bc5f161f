package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/park285/ecofy-server-go/internal/assistant"
	"github.com/park285/ecofy-server-go/internal/llm"
)

// Chatter 는 대화 응답 생성기다. 실패 시에도 항상 결과를 돌려준다.
type Chatter interface {
	Chat(ctx context.Context, message string, history []llm.ChatMessage) assistant.Result
}

// Manager 는 세션 수명주기와 세션 기반 대화를 담당한다.
type Manager struct {
	store     Storage
	assistant Chatter
	logger    *slog.Logger
}

// NewManager 세션 관리자 생성
func NewManager(store Storage, chatter Chatter, logger *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		assistant: chatter,
		logger:    logger,
	}
}

// CreateSessionRequest 세션 생성 요청
type CreateSessionRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// Info: 세션 정보 응답입니다.
type Info struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	MessageCount int               `json:"message_count"`
	History      []llm.ChatMessage `json:"history,omitempty"`
}

// ChatRequest 세션 채팅 요청
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse 세션 채팅 응답
type ChatResponse struct {
	Response     string    `json:"response"`
	Model        string    `json:"model"`
	Usage        llm.Usage `json:"usage"`
	Fallback     bool      `json:"fallback"`
	MessageCount int       `json:"message_count"`
}

// Create 세션 생성
func (m *Manager) Create(ctx context.Context, req CreateSessionRequest) (*Info, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	meta := Meta{
		ID:        sessionID,
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.CreateSession(ctx, meta); err != nil {
		return nil, err
	}

	m.logger.Debug("session_created", "session_id", sessionID)

	return &Info{
		ID:        meta.ID,
		UserID:    meta.UserID,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}, nil
}

// Get 세션 정보 조회
func (m *Manager) Get(ctx context.Context, sessionID string) (*Info, error) {
	meta, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := m.store.GetHistory(ctx, sessionID)
	if err != nil {
		history = nil // 히스토리 조회 실패해도 메타는 반환
	}

	return &Info{
		ID:           meta.ID,
		UserID:       meta.UserID,
		CreatedAt:    meta.CreatedAt,
		UpdatedAt:    meta.UpdatedAt,
		MessageCount: meta.MessageCount,
		History:      history,
	}, nil
}

// Chat 세션 기반 채팅. 응답이 폴백이어도 히스토리에는 기록한다.
func (m *Manager) Chat(ctx context.Context, sessionID string, req ChatRequest) (*ChatResponse, error) {
	meta, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := m.store.GetHistory(ctx, sessionID)
	if err != nil {
		history = nil
	}

	result := m.assistant.Chat(ctx, req.Message, history)

	userEntry := llm.ChatMessage{Role: llm.RoleUser, Content: req.Message}
	modelEntry := llm.ChatMessage{Role: llm.RoleModel, Content: result.Reply}
	if err := m.store.AppendHistory(ctx, sessionID, userEntry, modelEntry); err != nil {
		m.logger.Warn("history_append_failed", "err", err)
	}

	meta.MessageCount += 2
	meta.UpdatedAt = time.Now()
	if err := m.store.UpdateSession(ctx, *meta); err != nil {
		m.logger.Warn("session_update_failed", "err", err)
	}

	return &ChatResponse{
		Response:     result.Reply,
		Model:        result.Model,
		Usage:        result.Usage,
		Fallback:     result.Fallback,
		MessageCount: meta.MessageCount,
	}, nil
}

// Delete 세션 삭제
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	m.logger.Debug("session_deleted", "session_id", sessionID)
	return nil
}

// Count 현재 세션 수
func (m *Manager) Count(ctx context.Context) int {
	count, err := m.store.SessionCount(ctx)
	if err != nil {
		return 0
	}
	return count
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
