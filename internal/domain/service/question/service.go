package question

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"AnonAskBot/internal/domain/errorz"
	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/schema"
	"AnonAskBot/internal/domain/service/access"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
)

// ApprovalPoints is awarded to the author exactly once, on approval.
const ApprovalPoints = 5

// Transport is the outward-facing side of the lifecycle: operator review
// prompts, rejection notices and the public channel post.
type Transport interface {
	NotifyOperator(ctx context.Context, q schema.Question) error
	NotifyRejected(ctx context.Context, authorID int64, q schema.Question) error
	Publish(ctx context.Context, q schema.Question) (int, error)
}

type Service struct {
	questions repository.QuestionRepository
	users     repository.UserRepository
	mod       *moderation.Service
	access    *access.Service
	notify    *notify.Service
	transport Transport
	log       *zap.SugaredLogger
}

func New(
	questions repository.QuestionRepository,
	users repository.UserRepository,
	mod *moderation.Service,
	accessSvc *access.Service,
	notifySvc *notify.Service,
	transport Transport,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		questions: questions,
		users:     users,
		mod:       mod,
		access:    accessSvc,
		notify:    notifySvc,
		transport: transport,
		log:       log,
	}
}

// Submit gates the draft through moderation, stores it pending and asks the
// operator for review. A moderation failure creates nothing.
func (s *Service) Submit(ctx context.Context, authorID int64, draft schema.QuestionDraft) (schema.Question, error) {
	if err := s.mod.Evaluate(draft.Text); err != nil {
		return schema.Question{}, err
	}

	created, err := s.questions.Create(ctx, schema.Question{
		AuthorID: authorID,
		Text:     draft.Text,
		Topic:    draft.Topic,
	})
	if err != nil {
		return schema.Question{}, fmt.Errorf("create question: %w", err)
	}

	if err := s.users.IncQuestionsAsked(ctx, authorID); err != nil {
		s.log.Errorw("bump questions_asked failed", "user_id", authorID, "error", err)
	}

	if err := s.transport.NotifyOperator(ctx, created); err != nil {
		s.log.Warnw("operator review prompt failed", "question_id", created.ID, "error", err)
	}
	return created, nil
}

// Approve is operator-only. It publishes the question to the channel, flips
// the pending flag, awards the author and notifies them. Publication comes
// first: if the channel post fails the question stays pending and the
// operator can approve again. Re-approving a published question fails with
// errorz.ErrAlreadyApproved and awards nothing.
func (s *Service) Approve(ctx context.Context, actorID, questionID int64) (schema.Question, error) {
	if !s.access.IsOperator(actorID) {
		return schema.Question{}, errorz.ErrForbidden
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return schema.Question{}, err
	}
	if q.Approved {
		return schema.Question{}, errorz.ErrAlreadyApproved
	}

	msgID, err := s.transport.Publish(ctx, q)
	if err != nil {
		return schema.Question{}, fmt.Errorf("publish question: %w", err)
	}

	q, err = s.questions.Approve(ctx, questionID)
	if err != nil {
		// Lost the race after posting; the channel message is orphaned.
		s.log.Errorw("approve after publish failed", "question_id", questionID, "channel_msg_id", msgID, "error", err)
		return schema.Question{}, err
	}
	q.ChannelMsgID = msgID
	if err := s.questions.SetChannelMsgID(ctx, q.ID, msgID); err != nil {
		s.log.Errorw("store channel msg id failed", "question_id", q.ID, "error", err)
	}

	if err := s.users.AddPoints(ctx, q.AuthorID, ApprovalPoints); err != nil {
		s.log.Errorw("approval point award failed", "user_id", q.AuthorID, "error", err)
	}

	if err := s.notify.Dispatch(ctx, q.AuthorID, schema.NotificationQuestionApproved, schema.NotificationPayload{
		QuestionID: q.ID,
		Preview:    notify.Truncate(q.Text, 80),
	}); err != nil {
		s.log.Errorw("approval notification failed", "question_id", q.ID, "error", err)
	}
	return q, nil
}

// Reject is operator-only and deletes the question for good. The author gets
// a notice with the option to ask again.
func (s *Service) Reject(ctx context.Context, actorID, questionID int64) error {
	if !s.access.IsOperator(actorID) {
		return errorz.ErrForbidden
	}

	q, err := s.questions.DeletePending(ctx, questionID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return errorz.ErrNotFound
		}
		return fmt.Errorf("delete pending question: %w", err)
	}

	if err := s.transport.NotifyRejected(ctx, q.AuthorID, q); err != nil {
		s.log.Warnw("rejection notice failed", "question_id", questionID, "error", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, questionID int64) (schema.Question, error) {
	return s.questions.GetByID(ctx, questionID)
}
