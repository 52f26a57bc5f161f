package session

import (
	"strings"
	"time"

	"github.com/park285/ecofy-server-go/internal/llm"
)

func (s *Store) createSessionMemory(meta Meta) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)
	s.sessions[meta.ID] = &memorySession{
		meta:      meta,
		expiresAt: s.computeExpiry(now),
	}
	return nil
}

func (s *Store) getSessionMemory(sessionID string) (*Meta, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := entry.meta
	return &copied, nil
}

func (s *Store) updateSessionMemory(meta Meta) error {
	now := time.Now()
	meta.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	entry, ok := s.sessions[meta.ID]
	if !ok {
		entry = &memorySession{}
		s.sessions[meta.ID] = entry
	}
	entry.meta = meta
	entry.expiresAt = s.computeExpiry(now)
	return nil
}

func (s *Store) deleteSessionMemory(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) getHistoryMemory(sessionID string) []llm.ChatMessage {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	entry, ok := s.sessions[sessionID]
	if !ok || len(entry.history) == 0 {
		return nil
	}
	return append([]llm.ChatMessage(nil), entry.history...)
}

func (s *Store) appendHistoryMemory(sessionID string, entries ...llm.ChatMessage) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &memorySession{}
		s.sessions[sessionID] = entry
	}
	entry.history = trimHistory(append(entry.history, entries...), s.maxPairs())
	entry.expiresAt = s.computeExpiry(now)
	return nil
}

func (s *Store) sessionCountMemory() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(time.Now())
	return len(s.sessions)
}

func (s *Store) computeExpiry(now time.Time) time.Time {
	ttl := s.ttl()
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func (s *Store) pruneExpiredLocked(now time.Time) {
	for sessionID, entry := range s.sessions {
		if entry.expiresAt.IsZero() || now.Before(entry.expiresAt) {
			continue
		}
		delete(s.sessions, sessionID)
	}
}
