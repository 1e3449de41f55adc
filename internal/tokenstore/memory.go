package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Entries expire after their own ttl, bounded by maxTTL.
type MemoryStore struct {
	cache *expirable.LRU[int64, memoryEntry]
	now   func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most capacity users.
func NewMemoryStore(capacity int, maxTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[int64, memoryEntry](capacity, nil, maxTTL),
		now:   time.Now,
	}
}

// Save stores token for userID.
func (s *MemoryStore) Save(_ context.Context, userID int64, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh token ttl must be positive")
	}
	s.cache.Add(userID, memoryEntry{token: token, expiresAt: s.now().Add(ttl)})
	return nil
}

// Get returns the stored token for userID.
func (s *MemoryStore) Get(_ context.Context, userID int64) (string, error) {
	entry, ok := s.cache.Get(userID)
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.cache.Remove(userID)
		return "", ErrNotFound
	}
	return entry.token, nil
}

// Delete removes the stored token for userID.
func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.cache.Remove(userID)
	return nil
}
