package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"AnonAskBot/internal/domain/repository"
)

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

func (r *SubscriptionRepo) Add(ctx context.Context, userID, questionID int64) error {
	const query = `
	INSERT INTO subscriptions (user_id, question_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id, question_id) DO NOTHING;
	`
	_, err := r.pool.Exec(ctx, query, userID, questionID)
	return err
}

func (r *SubscriptionRepo) Remove(ctx context.Context, userID, questionID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subscriptions WHERE user_id = $1 AND question_id = $2;`, userID, questionID)
	return err
}

func (r *SubscriptionRepo) Subscribers(ctx context.Context, questionID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM subscriptions WHERE question_id = $1 ORDER BY created_at;`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
