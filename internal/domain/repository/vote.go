package repository

import (
	"AnonAskBot/internal/domain/schema"
	"context"
)

type VoteRepository interface {
	Get(ctx context.Context, userID, answerID int64) (schema.Vote, bool, error)
	Put(ctx context.Context, v schema.Vote) error
	Delete(ctx context.Context, userID, answerID int64) error
}

type SubscriptionRepository interface {
	// Add is idempotent: subscribing twice leaves one record.
	Add(ctx context.Context, userID, questionID int64) error
	Remove(ctx context.Context, userID, questionID int64) error
	Subscribers(ctx context.Context, questionID int64) ([]int64, error)
}
