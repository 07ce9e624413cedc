package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n schema.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	const query = `
	INSERT INTO notifications (id, user_id, kind, payload, created_at)
	VALUES ($1, $2, $3, $4, $5);
	`
	_, err = r.pool.Exec(ctx, query, n.ID, n.UserID, n.Kind, payload, n.CreatedAt)
	return err
}

func (r *NotificationRepo) ListUnread(ctx context.Context, userID int64) ([]schema.Notification, error) {
	const query = `
	SELECT id, user_id, kind, payload, is_read, created_at
	FROM notifications
	WHERE user_id = $1 AND NOT is_read
	ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []schema.Notification
	for rows.Next() {
		var n schema.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &payload, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1;`, id)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read;`, userID)
	return err
}
