package session

import (
	"context"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
)

// Service owns the single conversation slot per user. Starting any flow
// overwrites whatever was in the slot before (last writer wins).
type Service struct {
	repo repository.SessionRepository
}

func New(repo repository.SessionRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) StartAsk(ctx context.Context, userID int64) error {
	return s.repo.Set(ctx, userID, schema.Session{Step: schema.StepAwaitingQuestion})
}

func (s *Service) StartAnswer(ctx context.Context, userID, questionID int64) error {
	return s.repo.Set(ctx, userID, schema.Session{Step: schema.StepAwaitingAnswer, QuestionID: questionID})
}

func (s *Service) StartFeedback(ctx context.Context, userID int64) error {
	return s.repo.Set(ctx, userID, schema.Session{Step: schema.StepAwaitingFeedback})
}

func (s *Service) Get(ctx context.Context, userID int64) (schema.Session, bool, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Save(ctx context.Context, userID int64, state schema.Session) error {
	return s.repo.Set(ctx, userID, state)
}

func (s *Service) Cancel(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}
