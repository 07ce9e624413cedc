package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

var _ repository.QuestionRepository = (*QuestionRepo)(nil)

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) Create(ctx context.Context, q schema.Question) (schema.Question, error) {
	const query = `
	INSERT INTO questions (author_id, question_text, topic)
	VALUES ($1, $2, $3)
	RETURNING id, author_id, question_text, topic, approved, channel_msg_id, answer_count, created_at;
	`
	var out schema.Question
	if err := r.pool.QueryRow(ctx, query, q.AuthorID, q.Text, q.Topic).Scan(
		&out.ID,
		&out.AuthorID,
		&out.Text,
		&out.Topic,
		&out.Approved,
		&out.ChannelMsgID,
		&out.AnswerCount,
		&out.CreatedAt,
	); err != nil {
		return schema.Question{}, err
	}
	return out, nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id int64) (schema.Question, error) {
	const query = `
	SELECT id, author_id, question_text, topic, approved, channel_msg_id, answer_count, created_at
	FROM questions
	WHERE id = $1;
	`
	var out schema.Question
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.AuthorID,
		&out.Text,
		&out.Topic,
		&out.Approved,
		&out.ChannelMsgID,
		&out.AnswerCount,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.Question{}, errorz.ErrNotFound
		}
		return schema.Question{}, err
	}
	return out, nil
}

// Approve guards idempotency in SQL: only a still-pending row is flipped.
func (r *QuestionRepo) Approve(ctx context.Context, id int64) (schema.Question, error) {
	const query = `
	UPDATE questions
	SET approved = TRUE
	WHERE id = $1 AND approved = FALSE
	RETURNING id, author_id, question_text, topic, approved, channel_msg_id, answer_count, created_at;
	`
	var out schema.Question
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.AuthorID,
		&out.Text,
		&out.Topic,
		&out.Approved,
		&out.ChannelMsgID,
		&out.AnswerCount,
		&out.CreatedAt,
	)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return schema.Question{}, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1);`, id).Scan(&exists); err != nil {
		return schema.Question{}, err
	}
	if exists {
		return schema.Question{}, errorz.ErrAlreadyApproved
	}
	return schema.Question{}, errorz.ErrNotFound
}

func (r *QuestionRepo) SetChannelMsgID(ctx context.Context, id int64, msgID int) error {
	_, err := r.pool.Exec(ctx, `UPDATE questions SET channel_msg_id = $1 WHERE id = $2;`, msgID, id)
	return err
}

func (r *QuestionRepo) DeletePending(ctx context.Context, id int64) (schema.Question, error) {
	const query = `
	DELETE FROM questions
	WHERE id = $1 AND approved = FALSE
	RETURNING id, author_id, question_text, topic, approved, channel_msg_id, answer_count, created_at;
	`
	var out schema.Question
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.AuthorID,
		&out.Text,
		&out.Topic,
		&out.Approved,
		&out.ChannelMsgID,
		&out.AnswerCount,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.Question{}, errorz.ErrNotFound
		}
		return schema.Question{}, err
	}
	return out, nil
}

func (r *QuestionRepo) IncAnswerCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
	UPDATE questions SET answer_count = answer_count + 1 WHERE id = $1
	RETURNING answer_count;`, id).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errorz.ErrNotFound
	}
	return count, err
}

func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE approved;`).Scan(&n)
	return n, err
}
