package repotest

import (
	"context"
	"sync"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

type Sessions struct {
	mu sync.Mutex
	m  map[int64]schema.Session
}

var _ repository.SessionRepository = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]schema.Session)}
}

func (r *Sessions) Get(ctx context.Context, userID int64) (schema.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[userID]
	return s, ok, nil
}

func (r *Sessions) Set(ctx context.Context, userID int64, s schema.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[userID] = s
	return nil
}

func (r *Sessions) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, userID)
	return nil
}
