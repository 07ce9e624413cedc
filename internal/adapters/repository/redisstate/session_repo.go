package redisstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

// SessionRepo keeps one JSON session blob per user. No TTL: an abandoned
// flow persists until overwritten or cancelled.
type SessionRepo struct {
	client *redis.Client
}

var _ repository.SessionRepository = (*SessionRepo)(nil)

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Get(ctx context.Context, userID int64) (schema.Session, bool, error) {
	v, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return schema.Session{}, false, nil
	}
	if err != nil {
		return schema.Session{}, false, fmt.Errorf("%w: %v", errorz.ErrStoreUnavailable, err)
	}

	var state schema.Session
	if err := json.Unmarshal([]byte(v), &state); err != nil {
		return schema.Session{}, false, err
	}
	return state, true, nil
}

func (r *SessionRepo) Set(ctx context.Context, userID int64, state schema.Session) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(userID), b, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", errorz.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errorz.ErrStoreUnavailable, err)
	}
	return nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}
