package store

import (
	"context"
	"sync"
	"time"
)

// CachedStore 读缓存：ttl 内重复读取直接返回上次的快照，
// bypassCache 为 true 时强制读取最新数据。写入会使快照失效。
type CachedStore struct {
	next Store
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	snapshot  *Table
	fetchedAt time.Time
}

func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, ttl: ttl, now: time.Now}
}

func (s *CachedStore) Append(ctx context.Context, row Row) error {
	err := s.next.Append(ctx, row)

	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()

	return err
}

func (s *CachedStore) ReadAll(ctx context.Context, bypassCache bool) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !bypassCache && s.snapshot != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.snapshot, nil
	}

	t, err := s.next.ReadAll(ctx, true)
	if err != nil {
		return nil, err
	}
	s.snapshot = t
	s.fetchedAt = s.now()
	return t, nil
}
