package vote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/notify"
)

// Service keeps one active vote per (user, answer) pair. Casting replaces
// the previous vote (delete then insert), clearing removes it. The aggregate
// counter on the answer is moved by discrete deltas, one per removed or
// applied vote; within a request the count is eventually consistent.
type Service struct {
	votes   repository.VoteRepository
	answers repository.AnswerRepository
	notify  *notify.Service
	log     *zap.SugaredLogger
}

func New(votes repository.VoteRepository, answers repository.AnswerRepository, notifySvc *notify.Service, log *zap.SugaredLogger) *Service {
	return &Service{votes: votes, answers: answers, notify: notifySvc, log: log}
}

// Cast applies an up (+1) or down (-1) vote. Voting on your own answer is
// always errorz.ErrForbidden and changes nothing.
func (s *Service) Cast(ctx context.Context, voterID, answerID int64, value int) error {
	if value != 1 && value != -1 {
		return fmt.Errorf("invalid vote value %d", value)
	}

	ans, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return err
	}
	if ans.AuthorID == voterID {
		return errorz.ErrForbidden
	}

	existing, found, err := s.votes.Get(ctx, voterID, answerID)
	if err != nil {
		return err
	}
	if found {
		if err := s.votes.Delete(ctx, voterID, answerID); err != nil {
			return err
		}
		if err := s.answers.AddVotes(ctx, answerID, -existing.Value); err != nil {
			return err
		}
	}

	if err := s.votes.Put(ctx, schema.Vote{UserID: voterID, AnswerID: answerID, Value: value}); err != nil {
		return err
	}
	if err := s.answers.AddVotes(ctx, answerID, value); err != nil {
		return err
	}

	if err := s.notify.Dispatch(ctx, ans.AuthorID, schema.NotificationVoteReceived, schema.NotificationPayload{
		QuestionID: ans.QuestionID,
		AnswerID:   answerID,
		Preview:    notify.Truncate(ans.Text, 80),
		Direction:  value,
	}); err != nil {
		s.log.Errorw("vote notification failed", "answer_id", answerID, "error", err)
	}
	return nil
}

// Clear retracts the voter's vote if any. Clearing a vote that does not
// exist is a no-op success.
func (s *Service) Clear(ctx context.Context, voterID, answerID int64) error {
	existing, found, err := s.votes.Get(ctx, voterID, answerID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := s.votes.Delete(ctx, voterID, answerID); err != nil {
		return err
	}
	return s.answers.AddVotes(ctx, answerID, -existing.Value)
}
