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

type UserRepo struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Upsert(ctx context.Context, u schema.User) (schema.User, error) {
	const query = `
	INSERT INTO users (id, display_name)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name
	RETURNING id, display_name, points, questions_asked, answers_given, joined_at;
	`
	var out schema.User
	if err := r.pool.QueryRow(ctx, query, u.ID, u.DisplayName).Scan(
		&out.ID,
		&out.DisplayName,
		&out.Points,
		&out.QuestionsAsked,
		&out.AnswersGiven,
		&out.JoinedAt,
	); err != nil {
		return schema.User{}, err
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (schema.User, error) {
	const query = `
	SELECT id, display_name, points, questions_asked, answers_given, joined_at
	FROM users
	WHERE id = $1;
	`
	var out schema.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.DisplayName,
		&out.Points,
		&out.QuestionsAsked,
		&out.AnswersGiven,
		&out.JoinedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schema.User{}, errorz.ErrNotFound
		}
		return schema.User{}, err
	}
	return out, nil
}

func (r *UserRepo) AddPoints(ctx context.Context, id int64, delta int) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET points = points + $1 WHERE id = $2;`, delta, id)
	return err
}

func (r *UserRepo) IncQuestionsAsked(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET questions_asked = questions_asked + 1 WHERE id = $1;`, id)
	return err
}

func (r *UserRepo) IncAnswersGiven(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET answers_given = answers_given + 1 WHERE id = $1;`, id)
	return err
}

func (r *UserRepo) ListByPoints(ctx context.Context) ([]schema.User, error) {
	const query = `
	SELECT id, display_name, points, questions_asked, answers_given, joined_at
	FROM users
	ORDER BY points DESC, joined_at ASC, id ASC;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []schema.User
	for rows.Next() {
		var u schema.User
		if err := rows.Scan(
			&u.ID,
			&u.DisplayName,
			&u.Points,
			&u.QuestionsAsked,
			&u.AnswersGiven,
			&u.JoinedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&n)
	return n, err
}
