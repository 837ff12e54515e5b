// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store persists submissions and idempotency keys.
type Store interface {
	// Put stores a new submission. ErrDuplicateID if the id exists.
	Put(ctx context.Context, sub *Submission) error

	// Get returns the submission with the given id. ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Submission, error)

	// List returns submissions newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit, offset int) ([]Submission, error)

	// Delete removes a submission. ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored submissions.
	Count(ctx context.Context) (int, error)

	// PutIdempotency records key -> submission id with a TTL.
	PutIdempotency(ctx context.Context, key, id string, ttl time.Duration) error

	// GetIdempotency resolves a key to a submission id, or "" if the key
	// is unknown or expired.
	GetIdempotency(ctx context.Context, key string) (string, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// MemoryStore is the in-process Store used for dev and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	subs  map[string]Submission
	ikeys map[string]idemEntry
}

type idemEntry struct {
	id        string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs:  make(map[string]Submission),
		ikeys: make(map[string]idemEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, sub *Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; ok {
		return ErrDuplicateID
	}
	s.subs[sub.ID] = *sub
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]Submission, error) {
	s.mu.RLock()
	all := make([]Submission, 0, len(s.subs))
	for _, sub := range s.subs {
		all = append(all, sub)
	}
	s.mu.RUnlock()

	sortNewestFirst(all)
	return page(all, limit, offset), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return ErrNotFound
	}
	delete(s.subs, id)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs), nil
}

func (s *MemoryStore) PutIdempotency(_ context.Context, key, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ikeys[key] = idemEntry{id: id, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) GetIdempotency(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.ikeys[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.id, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders submissions by ReceivedAt descending with the id
// as a tie-breaker so paging is stable.
func sortNewestFirst(subs []Submission) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].ReceivedAt.Equal(subs[j].ReceivedAt) {
			return subs[i].ReceivedAt.After(subs[j].ReceivedAt)
		}
		return strings.Compare(subs[i].ID, subs[j].ID) < 0
	})
}

func page(subs []Submission, limit, offset int) []Submission {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(subs) {
		return []Submission{}
	}
	subs = subs[offset:]
	if limit > 0 && limit < len(subs) {
		subs = subs[:limit]
	}
	out := make([]Submission, len(subs))
	copy(out, subs)
	return out
}
