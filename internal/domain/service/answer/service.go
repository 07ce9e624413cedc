package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
)

// CreationPoints is awarded to the answerer for every accepted answer.
const CreationPoints = 10

// CounterUpdater refreshes the answer counter on the published channel
// message. Best-effort: stale messages legitimately fail.
type CounterUpdater interface {
	UpdateAnswerCounter(ctx context.Context, channelMsgID int, questionID int64, count int) error
}

type Service struct {
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	users     repository.UserRepository
	subs      repository.SubscriptionRepository
	mod       *moderation.Service
	notify    *notify.Service
	counter   CounterUpdater
	log       *zap.SugaredLogger
}

func New(
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	mod *moderation.Service,
	notifySvc *notify.Service,
	counter CounterUpdater,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		answers:   answers,
		questions: questions,
		users:     users,
		subs:      subs,
		mod:       mod,
		notify:    notifySvc,
		counter:   counter,
		log:       log,
	}
}

// Create stores a moderated answer to an approved question, auto-subscribes
// the answerer, awards points and fans out new-answer notifications.
func (s *Service) Create(ctx context.Context, authorID, questionID int64, text string) (schema.Answer, error) {
	if err := s.mod.Evaluate(text); err != nil {
		return schema.Answer{}, err
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return schema.Answer{}, err
	}
	if !q.Approved {
		return schema.Answer{}, errorz.ErrNotFound
	}

	created, err := s.answers.Create(ctx, schema.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Text:       text,
	})
	if err != nil {
		return schema.Answer{}, fmt.Errorf("create answer: %w", err)
	}

	count, err := s.questions.IncAnswerCount(ctx, questionID)
	if err != nil {
		s.log.Errorw("answer count bump failed", "question_id", questionID, "error", err)
		count = q.AnswerCount + 1
	}

	if err := s.users.IncAnswersGiven(ctx, authorID); err != nil {
		s.log.Errorw("bump answers_given failed", "user_id", authorID, "error", err)
	}
	if err := s.users.AddPoints(ctx, authorID, CreationPoints); err != nil {
		s.log.Errorw("answer point award failed", "user_id", authorID, "error", err)
	}

	// Always subscribe the answerer, whatever their prior state.
	if err := s.subs.Add(ctx, authorID, questionID); err != nil {
		s.log.Errorw("auto-subscribe failed", "user_id", authorID, "question_id", questionID, "error", err)
	}

	if err := s.notify.FanOutNewAnswer(ctx, q, created); err != nil {
		s.log.Errorw("new-answer fan-out failed", "question_id", questionID, "error", err)
	}

	if q.ChannelMsgID != 0 {
		if err := s.counter.UpdateAnswerCounter(ctx, q.ChannelMsgID, q.ID, count); err != nil {
			s.log.Debugw("channel counter update failed", "question_id", q.ID, "error", err)
		}
	}

	return created, nil
}

func (s *Service) List(ctx context.Context, questionID int64, page, pageSize int) (repository.ListAnswersResult, error) {
	return s.answers.ListByQuestion(ctx, questionID, page, pageSize)
}
