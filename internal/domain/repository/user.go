package repository

import (
	"AnonAskBot/internal/domain/schema"
	"context"
)

type UserRepository interface {
	// Upsert creates the user on first contact and refreshes the display
	// name on every later one.
	Upsert(ctx context.Context, u schema.User) (schema.User, error)
	GetByID(ctx context.Context, id int64) (schema.User, error)
	// AddPoints is the only way points change; callers are the award rules.
	AddPoints(ctx context.Context, id int64, delta int) error
	IncQuestionsAsked(ctx context.Context, id int64) error
	IncAnswersGiven(ctx context.Context, id int64) error
	// ListByPoints returns all users ordered by points descending, ties
	// broken by join order.
	ListByPoints(ctx context.Context) ([]schema.User, error)
	Count(ctx context.Context) (int, error)
}
