package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

type VoteRepo struct {
	pool *pgxpool.Pool
}

var _ repository.VoteRepository = (*VoteRepo)(nil)

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

func (r *VoteRepo) Get(ctx context.Context, userID, answerID int64) (schema.Vote, bool, error) {
	const query = `SELECT user_id, answer_id, value FROM votes WHERE user_id = $1 AND answer_id = $2;`
	var v schema.Vote
	err := r.pool.QueryRow(ctx, query, userID, answerID).Scan(&v.UserID, &v.AnswerID, &v.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return schema.Vote{}, false, nil
	}
	if err != nil {
		return schema.Vote{}, false, err
	}
	return v, true, nil
}

func (r *VoteRepo) Put(ctx context.Context, v schema.Vote) error {
	const query = `
	INSERT INTO votes (user_id, answer_id, value)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, answer_id) DO UPDATE SET value = EXCLUDED.value;
	`
	_, err := r.pool.Exec(ctx, query, v.UserID, v.AnswerID, v.Value)
	return err
}

func (r *VoteRepo) Delete(ctx context.Context, userID, answerID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM votes WHERE user_id = $1 AND answer_id = $2;`, userID, answerID)
	return err
}
