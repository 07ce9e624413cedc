package repository

import (
	"AnonAskBot/internal/domain/schema"
	"context"
)

type NotificationRepository interface {
	Create(ctx context.Context, n schema.Notification) error
	ListUnread(ctx context.Context, userID int64) ([]schema.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID int64) error
}
