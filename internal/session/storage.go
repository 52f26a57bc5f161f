package session

import (
	"context"

	"github.com/park285/ecofy-server-go/internal/llm"
)

// Storage 는 세션 저장소 인터페이스다. 테스트에서 가짜 구현을 주입할 수 있다.
type Storage interface {
	// 세션 수명주기.
	CreateSession(ctx context.Context, meta Meta) error
	GetSession(ctx context.Context, sessionID string) (*Meta, error)
	UpdateSession(ctx context.Context, meta Meta) error
	DeleteSession(ctx context.Context, sessionID string) error
	SessionCount(ctx context.Context) (int, error)

	// 대화 이력.
	GetHistory(ctx context.Context, sessionID string) ([]llm.ChatMessage, error)
	AppendHistory(ctx context.Context, sessionID string, entries ...llm.ChatMessage) error

	IsEnabled() bool
	Ping(ctx context.Context) error
	Close()
}

var _ Storage = (*Store)(nil)
