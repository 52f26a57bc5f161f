package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/ecofy-server-go/internal/config"
	"github.com/park285/ecofy-server-go/internal/llm"
)

var (
	// ErrSessionNotFound 는 세션 미존재 오류다.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreDisabled 는 저장소 비활성 오류다.
	ErrStoreDisabled = errors.New("session store disabled")
)

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

// Meta 는 세션 메타데이터다.
type Meta struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

type memorySession struct {
	meta      Meta
	history   []llm.ChatMessage
	expiresAt time.Time
}

// Store 는 채팅 세션 저장소다. Valkey 가 기본이고 메모리 백엔드로도 동작한다.
type Store struct {
	client  valkey.Client
	cfg     *config.Config
	enabled bool
	backend storeBackend

	mu       sync.Mutex
	sessions map[string]*memorySession
}

// NewStore 는 세션 저장소를 생성한다. 저장소가 꺼져 있으면 메모리 백엔드를 쓴다.
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if !cfg.SessionStore.Enabled {
		if cfg.SessionStore.Required {
			return nil, errors.New("session store required but disabled")
		}
		return newMemoryStore(cfg), nil
	}

	conn, err := parseStoreURL(cfg.SessionStore.URL)
	if err != nil {
		return nil, fmt.Errorf("parse session store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse session store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.SessionStore.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	return &Store{
		client:  client,
		cfg:     cfg,
		enabled: true,
		backend: storeBackendValkey,
	}, nil
}

func newMemoryStore(cfg *config.Config) *Store {
	return &Store{
		cfg:      cfg,
		enabled:  true,
		backend:  storeBackendMemory,
		sessions: make(map[string]*memorySession),
	}
}

// IsEnabled 는 저장소 활성화 여부를 반환한다.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// Close 는 Valkey 연결을 종료한다.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

func (s *Store) metaKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:meta", sessionID)
}

func (s *Store) historyKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:history", sessionID)
}

func (s *Store) ttl() time.Duration {
	return time.Duration(s.cfg.Session.SessionTTLMinutes) * time.Minute
}

// CreateSession 세션 생성
func (s *Store) CreateSession(ctx context.Context, meta Meta) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.createSessionMemory(meta)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session meta: %w", err)
	}

	cmd := s.client.B().Set().Key(s.metaKey(meta.ID)).Value(string(data)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession 세션 메타데이터 조회
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Meta, error) {
	if !s.enabled {
		return nil, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.getSessionMemory(sessionID)
	}

	cmd := s.client.B().Get().Key(s.metaKey(sessionID)).Build()
	result, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var m Meta
	if err := json.Unmarshal([]byte(result), &m); err != nil {
		return nil, fmt.Errorf("unmarshal session meta: %w", err)
	}
	return &m, nil
}

// UpdateSession 세션 메타데이터 업데이트
func (s *Store) UpdateSession(ctx context.Context, meta Meta) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.updateSessionMemory(meta)
	}

	meta.UpdatedAt = time.Now()
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal session meta: %w", err)
	}

	cmd := s.client.B().Set().Key(s.metaKey(meta.ID)).Value(string(data)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession 세션 삭제. DoMulti 로 메타와 히스토리를 한 번에 지운다.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.deleteSessionMemory(sessionID)
	}

	metaCmd := s.client.B().Del().Key(s.metaKey(sessionID)).Build()
	historyCmd := s.client.B().Del().Key(s.historyKey(sessionID)).Build()

	results := s.client.DoMulti(ctx, metaCmd, historyCmd)
	for i, result := range results {
		if err := result.Error(); err != nil && !valkey.IsValkeyNil(err) {
			if i == 0 {
				return fmt.Errorf("delete session meta: %w", err)
			}
			return fmt.Errorf("delete session history: %w", err)
		}
	}
	return nil
}

// GetHistory 세션 히스토리 조회. 압축 블롭을 풀어 반환한다.
func (s *Store) GetHistory(ctx context.Context, sessionID string) ([]llm.ChatMessage, error) {
	if !s.enabled {
		return nil, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.getHistoryMemory(sessionID), nil
	}

	cmd := s.client.B().Get().Key(s.historyKey(sessionID)).Build()
	blob, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get history: %w", err)
	}

	raw, err := decompressHistory(blob)
	if err != nil {
		return nil, fmt.Errorf("decompress history: %w", err)
	}

	var history []llm.ChatMessage
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return history, nil
}

// AppendHistory 히스토리에 메시지를 추가한다.
// 전체 히스토리를 다시 압축해 단일 키로 저장한다. 쓰기보다 읽기가 훨씬 잦은 워크로드다.
func (s *Store) AppendHistory(ctx context.Context, sessionID string, entries ...llm.ChatMessage) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if len(entries) == 0 {
		return nil
	}
	if s.backend == storeBackendMemory {
		return s.appendHistoryMemory(sessionID, entries...)
	}

	history, err := s.GetHistory(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, entries...)
	history = trimHistory(history, s.maxPairs())

	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	blob, err := compressHistory(raw)
	if err != nil {
		return fmt.Errorf("compress history: %w", err)
	}

	cmd := s.client.B().Set().Key(s.historyKey(sessionID)).Value(string(blob)).Ex(s.ttl()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// SessionCount 현재 세션 수 (근사치). SCAN 기반으로 블로킹 없이 센다.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	if !s.enabled {
		return 0, nil
	}
	if s.backend == storeBackendMemory {
		return s.sessionCountMemory(), nil
	}

	var count int
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match("chat:*:meta").Count(100).Build()
		result, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		count += len(result.Elements)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Ping Valkey 연결 확인
func (s *Store) Ping(ctx context.Context) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return nil
	}

	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

func (s *Store) maxPairs() int {
	if s.cfg == nil {
		return 0
	}
	return s.cfg.Session.HistoryMaxPairs
}

func trimHistory(history []llm.ChatMessage, maxPairs int) []llm.ChatMessage {
	if maxPairs <= 0 {
		return history
	}
	maxEntries := maxPairs * 2
	if len(history) <= maxEntries {
		return history
	}
	return history[len(history)-maxEntries:]
}
