package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

// Sender delivers a rendered notification to a user's chat. The telegram
// adapter implements it; tests substitute a fake.
type Sender interface {
	Send(ctx context.Context, userID int64, n schema.Notification) error
}

// Service writes notification records and attempts immediate delivery.
// Delivery failures (blocked bot, dead chat) are logged and swallowed; the
// record stays unread and can be fetched later.
type Service struct {
	repo   repository.NotificationRepository
	subs   repository.SubscriptionRepository
	sender Sender
	log    *zap.SugaredLogger
}

func New(repo repository.NotificationRepository, subs repository.SubscriptionRepository, sender Sender, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, subs: subs, sender: sender, log: log}
}

// Dispatch persists the notification, then tries to push it out. The record
// write is the primary operation; an undeliverable push never fails it.
func (s *Service) Dispatch(ctx context.Context, userID int64, kind schema.NotificationKind, payload schema.NotificationPayload) error {
	n := schema.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if err := s.sender.Send(ctx, userID, n); err != nil {
		s.log.Warnw("notification delivery failed", "user_id", userID, "kind", kind, "error", err)
	}
	return nil
}

// FanOutNewAnswer notifies the question author (unless they wrote the
// answer), then every subscriber except the answerer and the author.
func (s *Service) FanOutNewAnswer(ctx context.Context, q schema.Question, ans schema.Answer) error {
	payload := schema.NotificationPayload{
		QuestionID: q.ID,
		AnswerID:   ans.ID,
		Preview:    Truncate(ans.Text, 80),
	}

	notified := map[int64]struct{}{ans.AuthorID: {}}
	if q.AuthorID != ans.AuthorID {
		if err := s.Dispatch(ctx, q.AuthorID, schema.NotificationNewAnswer, payload); err != nil {
			return err
		}
		notified[q.AuthorID] = struct{}{}
	}

	subscribers, err := s.subs.Subscribers(ctx, q.ID)
	if err != nil {
		return err
	}
	for _, userID := range subscribers {
		if _, done := notified[userID]; done {
			continue
		}
		if err := s.Dispatch(ctx, userID, schema.NotificationNewAnswer, payload); err != nil {
			s.log.Errorw("fan-out record write failed", "user_id", userID, "question_id", q.ID, "error", err)
			continue
		}
		notified[userID] = struct{}{}
	}
	return nil
}

func (s *Service) Unread(ctx context.Context, userID int64) ([]schema.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Truncate shortens s to max runes, appending an ellipsis when it cuts.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
