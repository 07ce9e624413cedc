package profile

import (
	"context"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/access"
)

type Stats struct {
	Users     int
	Questions int
	Answers   int
}

// Service derives rank and leaderboard on every read; nothing is stored.
type Service struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	access    *access.Service
}

func New(users repository.UserRepository, questions repository.QuestionRepository, answers repository.AnswerRepository, accessSvc *access.Service) *Service {
	return &Service{users: users, questions: questions, answers: answers, access: accessSvc}
}

// Profile returns the user's record and 1-indexed rank in the points
// ordering (ties keep join order).
func (s *Service) Profile(ctx context.Context, userID int64) (schema.User, int, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return schema.User{}, 0, err
	}

	all, err := s.users.ListByPoints(ctx)
	if err != nil {
		return schema.User{}, 0, err
	}
	rank := 0
	for i, candidate := range all {
		if candidate.ID == userID {
			rank = i + 1
			break
		}
	}
	return u, rank, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]schema.User, error) {
	all, err := s.users.ListByPoints(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// AdminStats returns aggregate counters; operator only.
func (s *Service) AdminStats(ctx context.Context, actorID int64) (Stats, error) {
	if !s.access.IsOperator(actorID) {
		return Stats{}, errorz.ErrForbidden
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	questions, err := s.questions.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	answers, err := s.answers.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: users, Questions: questions, Answers: answers}, nil
}
