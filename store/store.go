package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BaSui01/humanloop/interrupt"
)

// ErrNotFound 表示存储中没有对应的会话快照。
var ErrNotFound = errors.New("interrupt session not found")

// SessionStore 定义会话快照的存储接口。
type SessionStore interface {
	Save(ctx context.Context, snap *interrupt.Snapshot) error
	Load(ctx context.Context, id string) (*interrupt.Snapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*interrupt.Snapshot, error)
}

// InMemoryStore 为会话快照提供内存存储。
type InMemoryStore struct {
	sessions map[string]*interrupt.Snapshot
	mu       sync.RWMutex
}

// NewInMemoryStore 创建内存会话存储。
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*interrupt.Snapshot),
	}
}

func (s *InMemoryStore) Save(ctx context.Context, snap *interrupt.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[snap.ID] = snap
	return nil
}

func (s *InMemoryStore) Load(ctx context.Context, id string) (*interrupt.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*interrupt.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*interrupt.Snapshot
	for _, snap := range s.sessions {
		results = append(results, snap)
	}
	return results, nil
}
