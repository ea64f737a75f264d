package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/config"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/session"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "salesdash:session:"

// SessionStore keeps session state between requests. Get returns
// domain.ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*session.State, error)
	Save(ctx context.Context, state *session.State) error
	Delete(ctx context.Context, id string) error
}

// NewSessionStore picks the backend named in the session config.
func NewSessionStore(sessionCfg config.SessionConfig, cacheCfg config.CacheConfig) (SessionStore, error) {
	ttl := sessionTTL(sessionCfg.TTLSeconds)

	switch strings.ToLower(sessionCfg.Backend) {
	case "", "memory":
		return NewMemorySessionStore(ttl), nil
	case "redis":
		client, err := newRedisClient(cacheCfg)
		if err != nil {
			return nil, err
		}
		return NewRedisSessionStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", sessionCfg.Backend)
	}
}

type memoryEntry struct {
	state     *session.State
	expiresAt time.Time
}

type memorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemorySessionStore keeps sessions in process. Entries expire ttl after
// their last save.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *memorySessionStore) Get(ctx context.Context, id string) (*session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, domain.ErrSessionNotFound
	}
	return entry.state.Clone(), nil
}

func (s *memorySessionStore) Save(ctx context.Context, state *session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[state.ID] = memoryEntry{state: state.Clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore stores each session as one JSON value with a TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*session.State, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return decodeState(payload)
}

func (s *redisSessionStore) Save(ctx context.Context, state *session.State) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+state.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// encodeState is the value format of the redis store.
func encodeState(state *session.State) ([]byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return payload, nil
}

func decodeState(payload []byte) (*session.State, error) {
	var state session.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}
