package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-console/internal/domain/session"
)

// Store defines the interface for console session persistence.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil if the session does not exist or has expired.
	Get(ctx context.Context, id string) (*domain.State, error)

	// Save stores a session and restarts its TTL.
	Save(ctx context.Context, st *domain.State) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}

// RedisStore implements Store using Redis as the backing store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// sessionKey generates a Redis key for a session ID.
func (s *RedisStore) sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get retrieves a session from Redis.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.State, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err == redis.Nil {
		s.log.Debug("session miss", zap.String("session_id", id))
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to get session", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Error("failed to unmarshal session", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}
	return &st, nil
}

// Save stores a session in Redis with TTL.
func (s *RedisStore) Save(ctx context.Context, st *domain.State) error {
	if st == nil || st.ID == "" {
		return fmt.Errorf("cannot save session without id")
	}

	st.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		s.log.Error("failed to marshal session", zap.String("session_id", st.ID), zap.Error(err))
		return err
	}

	if err := s.client.Set(ctx, s.sessionKey(st.ID), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session", zap.String("session_id", st.ID), zap.Error(err))
		return err
	}

	s.log.Debug("saved session", zap.String("session_id", st.ID), zap.Duration("ttl", s.ttl))
	return nil
}

// Delete removes a session from Redis.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		s.log.Error("failed to delete session", zap.String("session_id", id), zap.Error(err))
		return err
	}
	return nil
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// on read and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates a process-local session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a decoded copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*domain.State, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && m.ttl > 0 && !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, nil
	}

	var st domain.State
	if err := json.Unmarshal(e.data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Save stores an encoded snapshot so later mutations of st are not shared.
func (m *MemoryStore) Save(_ context.Context, st *domain.State) error {
	if st == nil || st.ID == "" {
		return fmt.Errorf("cannot save session without id")
	}

	st.UpdatedAt = m.now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[st.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
