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

type AnswerRepo struct {
	pool *pgxpool.Pool
}

var _ repository.AnswerRepository = (*AnswerRepo)(nil)

func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func (r *AnswerRepo) Create(ctx context.Context, a schema.Answer) (schema.Answer, error) {
	const query = `
	INSERT INTO answers (question_id, author_id, answer_text)
	VALUES ($1, $2, $3)
	RETURNING id, question_id, author_id, answer_text, votes, created_at;
	`
	var out schema.Answer
	if err := r.pool.QueryRow(ctx, query, a.QuestionID, a.AuthorID, a.Text).Scan(
		&out.ID,
		&out.QuestionID,
		&out.AuthorID,
		&out.Text,
		&out.Votes,
		&out.CreatedAt,
	); err != nil {
		return schema.Answer{}, err
	}
	return out, nil
}

func (r *AnswerRepo) GetByID(ctx context.Context, id int64) (schema.Answer, error) {
	const query = `
	SELECT id, question_id, author_id, answer_text, votes, created_at
	FROM answers
	WHERE id = $1;
	`
	var out schema.Answer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.QuestionID,
		&out.AuthorID,
		&out.Text,
		&out.Votes,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.Answer{}, errorz.ErrNotFound
		}
		return schema.Answer{}, err
	}
	return out, nil
}

func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID int64, page, pageSize int) (repository.ListAnswersResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	offset := (page - 1) * pageSize

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM answers WHERE question_id = $1;`, questionID).Scan(&total); err != nil {
		return repository.ListAnswersResult{}, err
	}

	const query = `
	SELECT id, question_id, author_id, answer_text, votes, created_at
	FROM answers
	WHERE question_id = $1
	ORDER BY votes DESC, id ASC
	LIMIT $2 OFFSET $3;
	`
	rows, err := r.pool.Query(ctx, query, questionID, pageSize, offset)
	if err != nil {
		return repository.ListAnswersResult{}, err
	}
	defer rows.Close()

	items := make([]schema.Answer, 0, pageSize)
	for rows.Next() {
		var a schema.Answer
		if err := rows.Scan(
			&a.ID,
			&a.QuestionID,
			&a.AuthorID,
			&a.Text,
			&a.Votes,
			&a.CreatedAt,
		); err != nil {
			return repository.ListAnswersResult{}, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return repository.ListAnswersResult{}, err
	}

	return repository.ListAnswersResult{Items: items, Total: total}, nil
}

func (r *AnswerRepo) AddVotes(ctx context.Context, id int64, delta int) error {
	_, err := r.pool.Exec(ctx, `UPDATE answers SET votes = votes + $1 WHERE id = $2;`, delta, id)
	return err
}

func (r *AnswerRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM answers;`).Scan(&n)
	return n, err
}
