package subscription

import (
	"context"

	"AnonAskBot/internal/domain/repository"
)

type Service struct {
	repo repository.SubscriptionRepository
}

func New(repo repository.SubscriptionRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Subscribe(ctx context.Context, userID, questionID int64) error {
	return s.repo.Add(ctx, userID, questionID)
}

func (s *Service) Unsubscribe(ctx context.Context, userID, questionID int64) error {
	return s.repo.Remove(ctx, userID, questionID)
}

func (s *Service) Subscribers(ctx context.Context, questionID int64) ([]int64, error) {
	return s.repo.Subscribers(ctx, questionID)
}
