package docstore

import (
	"context"
	"sync"
)

// CommitFunc persists a new root before it becomes visible. Returning an
// error rejects the mutation and leaves the store unchanged.
type CommitFunc func(ctx context.Context, root any) error

type MemoryOption func(*MemoryStore)

// WithCommitter makes every mutation write through fn.
func WithCommitter(fn CommitFunc) MemoryOption {
	return func(s *MemoryStore) {
		s.commit = fn
	}
}

// WithRoot seeds the store with an already normalized tree.
func WithRoot(root any) MemoryOption {
	return func(s *MemoryStore) {
		s.root = root
	}
}

// MemoryStore keeps the whole tree in memory and serializes mutations with a
// single lock. It is the store used by tests and by the server, which adds
// durability through WithCommitter.
type MemoryStore struct {
	mu     sync.Mutex
	root   any
	commit CommitFunc
	hub    *Hub
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{hub: NewHub()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, path string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotAt(s.root, Split(path)), nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	return s.Update(ctx, map[string]any{path: value})
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	return s.Update(ctx, map[string]any{path: nil})
}

func (s *MemoryStore) Update(ctx context.Context, updates map[string]any) error {
	m, err := NewMutation(updates)
	if err != nil {
		return err
	}
	return s.Apply(ctx, m)
}

// Apply commits an already validated mutation.
func (s *MemoryStore) Apply(ctx context.Context, m Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(m) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := m.Apply(s.root)
	if s.commit != nil {
		if err := s.commit(ctx, next); err != nil {
			return err
		}
	}
	s.root = next
	s.hub.Publish(next, m.Paths())
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context, path string, fn func(Snapshot)) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hub.Subscribe(path, s.root, fn), nil
}

// Watchers returns the number of live subscriptions.
func (s *MemoryStore) Watchers() int {
	return s.hub.Len()
}

// Close cancels every subscription.
func (s *MemoryStore) Close() {
	s.hub.Close()
}
